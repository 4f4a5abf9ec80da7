package main

import (
	"context"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/supply-chain/domain/supplychain"
	"github.com/luca-patrignani/supply-chain/ledger"
)

const (
	actionCreate  = "Create product"
	actionProcess = "Process product"
	actionList    = "Show products"
	actionHistory = "Show product history"
	actionChain   = "Show chain details"
	actionVerify  = "Verify chain"
	actionQuit    = "Quit"
)

var actions = []string{actionCreate, actionProcess, actionList, actionHistory, actionChain, actionVerify, actionQuit}

var productTypes = []string{"electronics", "food", "clothing", "shoes", "other"}

type app struct {
	log      *slog.Logger
	chain    *ledger.Blockchain
	recorder recorder
	registry *supplychain.Registry
}

func (a *app) loop(ctx context.Context) {
	for ctx.Err() == nil {
		a.printSummary()

		selected, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select an action").WithOptions(actions).Show()
		if err != nil {
			a.log.Error("could not read action", "error", err)
			return
		}

		switch selected {
		case actionCreate:
			a.createProduct(ctx)
		case actionProcess:
			a.processProduct(ctx)
		case actionList:
			a.printProducts()
		case actionHistory:
			a.printHistory()
		case actionChain:
			a.printChain()
		case actionVerify:
			a.verify()
		case actionQuit:
			return
		}
	}
}

// batch renders everything once and reports whether the chain is valid.
func (a *app) batch() bool {
	a.printProducts()
	a.printChain()
	return a.verify()
}

func (a *app) printSummary() {
	pterm.Println(renderSummary(a.chain.Blocks(), a.recorder.IsChainValid()))
}

func (a *app) createProduct(ctx context.Context) {
	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Product name").Show()
	manufacturer, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Manufacturer").Show()
	productType, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Product type").WithOptions(productTypes).Show()

	p, err := a.registry.CreateProduct(ctx, supplychain.CreateRequest{
		Name:         name,
		Manufacturer: manufacturer,
		Type:         productType,
	})
	if err != nil {
		pterm.Error.Printfln("Could not create product: %v", err)
		return
	}
	pterm.Success.Printfln("Product %s (%d) created", p.Name, p.ID)
}

func (a *app) processProduct(ctx context.Context) {
	processable := a.registry.Processable()
	if len(processable) == 0 {
		pterm.Warning.Println("No product can be processed.")
		return
	}
	options := make([]string, 0, len(processable))
	for _, p := range processable {
		options = append(options, productOption(p))
	}
	selected, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Product").WithOptions(options).Show()
	id, err := parseProductOption(selected)
	if err != nil {
		pterm.Error.Printfln("Invalid product selection: %v", err)
		return
	}

	var stages []string
	for _, stage := range supplychain.Stages()[1:] {
		stages = append(stages, stage.String())
	}
	stage, _ := pterm.DefaultInteractiveSelect.WithDefaultText("New stage").WithOptions(stages).Show()
	entity, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Entity name").Show()
	successful, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Was the step successful?").WithDefaultValue(true).Show()

	p, err := a.registry.ProcessProduct(ctx, supplychain.ProcessRequest{
		ProductID:  id,
		Stage:      stage,
		Entity:     entity,
		Successful: successful,
	})
	if err != nil {
		pterm.Error.Printfln("Could not process product: %v", err)
		return
	}

	outcome := "successfully"
	if !successful {
		outcome = "unsuccessfully"
	}
	pterm.Success.Printfln("Product %d was %s processed at stage %s", p.ID, outcome, p.CurrentStage.Title())
}

func (a *app) printProducts() {
	rendered, err := renderProducts(a.registry.Products())
	if err != nil {
		a.log.Error("could not render products", "error", err)
		return
	}
	pterm.Println(rendered)
}

func (a *app) printHistory() {
	products := a.registry.Products()
	if len(products) == 0 {
		pterm.Warning.Println("No products in the system.")
		return
	}
	options := make([]string, 0, len(products))
	for _, p := range products {
		options = append(options, productOption(p))
	}
	selected, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Product").WithOptions(options).Show()
	id, err := parseProductOption(selected)
	if err != nil {
		pterm.Error.Printfln("Invalid product selection: %v", err)
		return
	}
	p, err := a.registry.Product(id)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.DefaultBox.WithTitle("|HISTORY|").WithTitleTopCenter().Println(renderHistory(p))
}

func (a *app) printChain() {
	rendered, err := renderChain(a.chain.Blocks())
	if err != nil {
		a.log.Error("could not render chain", "error", err)
		return
	}
	pterm.Println(rendered)
}

// verify runs the quick integrity check and, when it fails, lists every
// fault found by a full audit.
func (a *app) verify() bool {
	valid := a.recorder.IsChainValid()
	if valid {
		pterm.Success.Println("Chain is valid")
		return true
	}
	pterm.Error.Println("Chain is invalid")
	pterm.Println(renderFaults(a.chain.Verify()))
	return false
}
