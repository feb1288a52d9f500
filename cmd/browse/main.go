package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/api"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/browser"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/config"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/journal"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/view"
)

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	jnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer jnl.Close()

	client := api.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout, api.BreakerConfig{
		Enabled:          cfg.Breaker.Enabled,
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	})

	b := browser.New(client, browser.Options{
		LoadPolicy: catalog.LoadPolicy{
			Attempts: cfg.Catalog.RetryAttempts,
			Delay:    cfg.Catalog.RetryDelay,
		},
		DisclosureLimit: cfg.View.DisclosureLimit,
		Journal:         jnl,
	})

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		// Empty grid; the session continues.
		fmt.Println("Product catalog is currently unavailable.")
	}

	fmt.Println("Product Advisor ready.")
	fmt.Printf("  Service: %s | Session: %s\n", cfg.Service.BaseURL, b.SessionID())
	fmt.Println("Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", b.ActiveView())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		runCommand(ctx, b, line)
	}
}

// #endregion main

// #region commands

func runCommand(ctx context.Context, b *browser.Browser, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		printHelp()
	case "view":
		if len(args) != 1 {
			fmt.Println("usage: view catalog|preferences|history|recommendations")
			return
		}
		b.Select(view.View(args[0]))
		render(b)
	case "show":
		render(b)
	case "open":
		if len(args) != 1 {
			fmt.Println("usage: open <product-id>")
			return
		}
		openDetail(b, args[0])
	case "close":
		b.CloseCatalogDetail()
		b.CloseRecommendationDetail()
	case "price":
		if len(args) != 1 {
			fmt.Println("usage: price all|low|medium|high")
			return
		}
		if err := b.SetPriceRange(prefs.PriceRange(args[0])); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	case "category":
		toggle(b, prefs.KindCategories, args)
	case "brand":
		toggle(b, prefs.KindBrands, args)
	case "more":
		if len(args) != 1 {
			fmt.Println("usage: more categories|brands")
			return
		}
		b.ToggleDisclosure(prefs.Kind(args[0]))
		render(b)
	case "clear":
		b.ClearHistory()
		fmt.Println("browsing history cleared")
	case "recommend":
		if err := b.RequestRecommendations(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Println("fetching recommendations...")
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}
}

func toggle(b *browser.Browser, kind prefs.Kind, args []string) {
	if len(args) == 0 {
		fmt.Printf("usage: %s <value>\n", kind)
		return
	}
	value := strings.Join(args, " ")
	if err := b.TogglePreference(kind, value); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openDetail(b *browser.Browser, id string) {
	switch b.ActiveView() {
	case view.ViewRecommendations:
		if !b.OpenRecommendationDetail(id) {
			fmt.Printf("no recommended product %q\n", id)
			return
		}
	default:
		if !b.OpenCatalogDetail(id) {
			fmt.Printf("no product %q in the catalog\n", id)
			return
		}
	}
	render(b)
}

func printHelp() {
	fmt.Println(`commands:
  view <screen>      switch screen (catalog|preferences|history|recommendations)
  show               render the active screen
  open <id>          open a product detail (records history on the catalog screen)
  close              close open details
  price <band>       set price range (all|low|medium|high)
  category <value>   toggle a category preference
  brand <value>      toggle a brand preference
  more <kind>        expand/collapse the preference list (categories|brands)
  clear              clear browsing history
  recommend          request personalized recommendations
  quit               exit`)
}

// #endregion commands

// #region render

func render(b *browser.Browser) {
	switch b.ActiveView() {
	case view.ViewCatalog:
		renderCatalog(b.CatalogView())
	case view.ViewPreferences:
		renderPreferences(b.PreferencesView())
	case view.ViewHistory:
		renderHistory(b.HistoryView())
	case view.ViewRecommendations:
		renderRecommendations(b.RecommendationsView())
	}
}

func renderCatalog(v view.CatalogView) {
	if len(v.Products) == 0 {
		fmt.Println("(empty catalog)")
		return
	}
	for _, p := range v.Products {
		marker := " "
		if p.Viewed {
			marker = "*"
		}
		fmt.Printf("%s %-6s %-28s %-14s %-10s $%.2f\n", marker, p.ID, p.Name, p.Category, p.Brand, p.Price)
	}
	renderDetail(v.Detail)
}

func renderPreferences(v view.PreferencesView) {
	fmt.Printf("price range: %s\n", v.PriceRange)
	renderOptions("categories", v.Categories)
	renderOptions("brands", v.Brands)
}

func renderOptions(label string, opts view.TruncatedOptions) {
	fmt.Printf("%s:\n", label)
	for _, o := range opts.Visible {
		mark := "[ ]"
		if o.Selected {
			mark = "[x]"
		}
		fmt.Printf("  %s %s\n", mark, o.Value)
	}
	if opts.Hidden > 0 {
		fmt.Printf("  ... %d more (try 'more %s')\n", opts.Hidden, label)
	}
}

func renderHistory(v view.HistoryView) {
	if len(v.Products) == 0 {
		fmt.Println("You haven't viewed any products yet.")
		return
	}
	for _, p := range v.Products {
		fmt.Printf("%-6s %-28s %-14s $%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}
}

func renderRecommendations(v view.RecommendationsView) {
	switch {
	case v.Loading:
		fmt.Println("Loading recommendations...")
	case v.Failed:
		fmt.Printf("Recommendation fetch failed (%v). Try 'recommend' again.\n", v.Failure)
	case len(v.Items) == 0:
		fmt.Println("No recommendations yet. Set your preferences and browse some products!")
	default:
		for _, item := range v.Items {
			fmt.Printf("%-6s %-28s confidence %.1f/10\n", item.Product.ID, item.Product.Name, item.Confidence)
			fmt.Printf("       %s\n", item.Explanation)
		}
	}
	renderDetail(v.Detail)
}

func renderDetail(p *catalog.Product) {
	if p == nil {
		return
	}
	fmt.Printf("--- %s (%s) ---\n", p.Name, p.ID)
	fmt.Printf("%s / %s | %s | $%.2f | rating %.1f | %d in stock\n",
		p.Category, orDash(p.Subcategory), p.Brand, p.Price, p.Rating, p.Inventory)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	for _, f := range p.Features {
		fmt.Printf("  - %s\n", f)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion render
