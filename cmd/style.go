package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"

	"github.com/luca-patrignani/supply-chain/domain/supplychain"
	"github.com/luca-patrignani/supply-chain/ledger"
)

const timeLayout = "02.01.2006. 15:04:05"

const cardsPerRow = 3

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func integrityLabel(valid bool) string {
	if valid {
		return pterm.LightGreen("Valid")
	}
	return pterm.LightRed("Invalid")
}

// renderSummary shows the chain length, the time of the latest block and the
// integrity status.
func renderSummary(blocks []ledger.Block, valid bool) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	lastBlock := "-"
	if len(blocks) > 0 {
		lastBlock = formatTime(blocks[len(blocks)-1].Timestamp)
	}
	return pbox.WithTitle(pterm.LightYellow("|LEDGER|")).WithTitleTopCenter().Sprintf(
		"Blocks: %d\nLast block: %s\nIntegrity: %s", len(blocks), lastBlock, integrityLabel(valid))
}

// renderStageProgress draws the stages of the chain, marking the ones the
// product went through, the current one and the pending ones.
func renderStageProgress(p supplychain.Product) string {
	current := p.CurrentStage.Index()
	var steps []string
	for i, stage := range supplychain.Stages() {
		switch {
		case i < current:
			steps = append(steps, pterm.Green("✓ "+stage.Title()))
		case i == current:
			steps = append(steps, pterm.LightCyan("● "+stage.Title()))
		default:
			steps = append(steps, pterm.Gray("○ "+stage.Title()))
		}
	}
	return strings.Join(steps, " → ")
}

func renderProductCard(p supplychain.Product) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.LightCyan(fmt.Sprintf("#%d", p.ID))
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf(
		"%s\nType: %s\nStage: %s\n\n%s", pterm.Bold.Sprint(p.Name), p.Type, p.CurrentStage.Title(), renderStageProgress(p))
}

// renderProducts lays the product cards out in rows.
func renderProducts(products []supplychain.Product) (string, error) {
	if len(products) == 0 {
		return pterm.Gray("No products in the system."), nil
	}
	var rows [][]pterm.Panel
	for i, p := range products {
		if i%cardsPerRow == 0 {
			rows = append(rows, []pterm.Panel{})
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], pterm.Panel{Data: renderProductCard(p)})
	}
	return pterm.DefaultPanel.WithPanels(rows).Srender()
}

func renderHistory(p supplychain.Product) string {
	var builder strings.Builder
	builder.WriteString(pterm.Bold.Sprintf("%s (%d)", p.Name, p.ID))
	for _, entry := range p.History {
		status := pterm.LightGreen("Successful")
		if !entry.Successful {
			status = pterm.LightRed("Failed")
		}
		builder.WriteString(fmt.Sprintf("\n\n%s\nStage: %s\nEntity: %s\nStatus: %s",
			pterm.Gray(formatTime(entry.Timestamp)), entry.Stage.Title(), entry.Entity, status))
	}
	return builder.String()
}

// payloadJSON renders a payload for display. The hashed form is CBOR; this is
// never fed back into the ledger.
func payloadJSON(p ledger.Payload) ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(struct {
		Type ledger.Kind    `json:"type"`
		Data ledger.Payload `json:"data"`
	}{p.Kind(), p}, "", "  ")
}

func renderBlock(index int, b ledger.Block) (string, error) {
	data, err := payloadJSON(b.Payload)
	if err != nil {
		return "", fmt.Errorf("could not render payload of block %d: %w", index, err)
	}
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	return pbox.WithTitle(pterm.LightYellow(fmt.Sprintf("Block #%d", index))).WithTitleTopLeft().Sprintf(
		"%s\nHash: %s\nPrevious hash: %s\nData:\n%s",
		pterm.Gray(formatTime(b.Timestamp)), b.Hash, b.PreviousHash, string(data)), nil
}

func renderChain(blocks []ledger.Block) (string, error) {
	rendered := make([]string, 0, len(blocks))
	for i, b := range blocks {
		s, err := renderBlock(i, b)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, s)
	}
	return strings.Join(rendered, "\n"), nil
}

// renderFaults lists the violations reported by a chain audit.
func renderFaults(err error) string {
	if err == nil {
		return ""
	}
	faults := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		faults = merr.Errors
	}
	lines := make([]string, 0, len(faults))
	for _, fault := range faults {
		lines = append(lines, pterm.LightRed("✗ ")+fault.Error())
	}
	return strings.Join(lines, "\n")
}

func productOption(p supplychain.Product) string {
	return fmt.Sprintf("%d - %s", p.ID, p.Name)
}

func parseProductOption(option string) (uint64, error) {
	id, _, _ := strings.Cut(option, " - ")
	return strconv.ParseUint(strings.TrimSpace(id), 10, 64)
}
