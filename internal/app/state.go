package app

import "fmt"

// Kind is the coarse state of a session.
type Kind int

const (
	NoWallets Kind = iota
	WalletSelected
	AwaitingInput
)

func (k Kind) String() string {
	switch k {
	case NoWallets:
		return "no-wallets"
	case WalletSelected:
		return "wallet-selected"
	case AwaitingInput:
		return "awaiting-input"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// InputKind says what a session waiting for input is waiting for.
type InputKind int

const (
	InputNone InputKind = iota
	InputWalletName
	InputSecret
	InputConfirmation
	InputBatchLines
	InputNetwork
)

func (k InputKind) String() string {
	switch k {
	case InputNone:
		return "none"
	case InputWalletName:
		return "wallet-name"
	case InputSecret:
		return "secret"
	case InputConfirmation:
		return "confirmation"
	case InputBatchLines:
		return "batch-lines"
	case InputNetwork:
		return "network"
	default:
		return fmt.Sprintf("input(%d)", int(k))
	}
}

// State is the session state. Awaiting is only meaningful in AwaitingInput.
type State struct {
	Kind     Kind
	Awaiting InputKind
}

func (s State) String() string {
	if s.Kind == AwaitingInput {
		return fmt.Sprintf("%s{%s}", s.Kind, s.Awaiting)
	}
	return s.Kind.String()
}
