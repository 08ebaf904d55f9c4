package networks

// DefaultNativeSymbol is shown for custom networks persisted without a symbol.
const DefaultNativeSymbol = "NATIVE"

// Builtin describes the network every wallet starts on. Its name is reserved.
type Builtin struct {
	Name   string `yaml:"Name" json:"name"`
	Symbol string `yaml:"Symbol" json:"symbol"`
	RPC    string `yaml:"RPC" json:"rpc"`
}

type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Address  string `json:"address"`
}

// TokenMeta is what a contract reports about itself.
type TokenMeta struct {
	Name     string
	Symbol   string
	Decimals uint8
}

type Network struct {
	RPC    string  `json:"rpc"`
	Symbol string  `json:"symbol"`
	Tokens []Token `json:"tokens"`
}

// Settings is the network state owned by one wallet. The built-in network is
// never a key of Networks; its tokens live in Tokens.
type Settings struct {
	Networks       map[string]Network `json:"networks"`
	CurrentNetwork string             `json:"currentNetwork"`
	Tokens         []Token            `json:"tokens,omitempty"`
}

// Active is a resolved view of the network a wallet currently uses.
type Active struct {
	Name    string
	Builtin bool
	RPC     string
	Symbol  string
	Tokens  []Token
}
