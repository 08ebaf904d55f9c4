package constants

const (
	AppName    = "cli-wallet"
	WalletFile = "wallets.json"

	SchemaV1      = 1
	FilePerm      = 0o600
	DirectoryPerm = 0o700

	// AAD const for the wallet file
	AADConstant = "cli-wallet:wallets:v1"

	// Suffix of the backup an unreadable wallet file is moved to.
	CorruptSuffix = ".corrupt-"
)
