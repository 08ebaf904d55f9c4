package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/app"
	"github.com/quantumauth-io/cli-wallet/internal/assets"
	"github.com/quantumauth-io/cli-wallet/internal/ethaddr"
	"github.com/quantumauth-io/cli-wallet/internal/networks"
	"github.com/quantumauth-io/cli-wallet/internal/securefile"
	"github.com/quantumauth-io/cli-wallet/internal/transfer"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

const readFailed = "(read failed)"

func userMessage(err error) string {
	if errors.Is(err, securefile.ErrInvalidPasswordOrCorrupt) {
		return securefile.ErrInvalidPasswordOrCorrupt.Error()
	}
	return err.Error()
}

func renderWallets(w io.Writer, recs []wallet.Record) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "No wallets yet. Run `cli-wallet wallet generate` or `cli-wallet wallet import`.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, rec := range recs {
		marker := " "
		if rec.Primary {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s %d)\t%s\t%s\t%s\n", marker, i+1, rec.Name, ethaddr.Short(rec.Address), rec.CurrentNetwork)
	}
	_ = tw.Flush()
}

func renderWallet(w io.Writer, rec wallet.Record, active networks.Active) {
	_, _ = fmt.Fprintf(w, "Name:     %s\n", rec.Name)
	_, _ = fmt.Fprintf(w, "Address:  %s\n", rec.Address)
	_, _ = fmt.Fprintf(w, "Network:  %s (%s)\n", active.Name, active.Symbol)
	_, _ = fmt.Fprintf(w, "RPC:      %s\n", active.RPC)
	_, _ = fmt.Fprintf(w, "Tokens:   %d\n", len(active.Tokens))
}

func renderSnapshot(w io.Writer, snap app.Snapshot) {
	_, _ = fmt.Fprintf(w, "%s on %s\n", snap.Wallet, snap.Network.Name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range snap.Holdings {
		bal := h.Balance.String()
		if h.Err != nil {
			bal = readFailed
		}
		_, _ = fmt.Fprintf(tw, "  %d)\t%s\t%s\n", i+1, h.Asset, bal)
	}
	_ = tw.Flush()
}

func renderAssets(w io.Writer, list []assets.Asset) {
	for i, a := range list {
		_, _ = fmt.Fprintf(w, "  %d) %s\n", i+1, a)
	}
}

func renderTokens(w io.Writer, active networks.Active, tokens []networks.Token) {
	if len(tokens) == 0 {
		_, _ = fmt.Fprintf(w, "No tokens on %s.\n", active.Name)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range tokens {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Symbol, t.Name, t.Decimals, t.Address)
	}
	_ = tw.Flush()
}

func renderOutcome(w io.Writer, o transfer.Outcome) {
	switch o.Status {
	case transfer.StatusSuccess:
		_, _ = fmt.Fprintf(w, "sent %s to %s: %s\n", o.Amount, o.Destination, o.TxHash)
	default:
		_, _ = fmt.Fprintf(w, "%s %s to %s: %s\n", o.Status, o.Amount, o.Destination, o.Reason)
	}
}

func renderBatch(w io.Writer, res transfer.BatchResult) {
	for _, sk := range res.Skipped {
		_, _ = fmt.Fprintf(w, "skipped line %d (%s %s): %s\n", sk.Line, sk.Destination, sk.Amount, sk.Reason)
	}
	if res.Cancelled {
		_, _ = fmt.Fprintln(w, "Batch cancelled, nothing was sent.")
		return
	}
	n := len(res.Outcomes)
	for _, o := range res.Outcomes {
		_, _ = fmt.Fprintf(w, "[%d/%d] ", o.Index, n)
		renderOutcome(w, o)
	}
	_, _ = fmt.Fprintf(w, "%d of %d transfers succeeded.\n", res.Succeeded(), n)
}
