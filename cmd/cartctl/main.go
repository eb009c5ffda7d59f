package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/truls-star/therwatt-nettbutikk/internal/cart"
	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
	"github.com/truls-star/therwatt-nettbutikk/internal/client"
	"github.com/truls-star/therwatt-nettbutikk/internal/pricing"
	"github.com/truls-star/therwatt-nettbutikk/pkg/logger"
)

const usage = `usage: cartctl <command> [args]

commands:
  products              list the catalog with current prices
  add <sku>             add one unit to the local cart
  set <sku> <qty>       set line quantity (0 removes the line)
  inc <sku>             increase line quantity by one
  dec <sku>             decrease line quantity by one
  cart                  show the local cart
  clear                 empty the local cart
  checkout [-email e] [-note n]   start a hosted payment session
`

func main() {
	log := logger.New(logger.Options{Service: "cartctl", Level: getEnv("LOG_LEVEL", "warn")})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := getEnv("STOREFRONT_URL", "http://localhost:8080")
	cartPath := getEnv("CART_FILE", defaultCartPath())

	api := client.New(baseURL, log)
	svc := cart.NewService(cart.NewFileStore(cartPath, log))
	ctx := context.Background()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "products":
		err = listProducts(ctx, api)
	case "add":
		err = addToCart(ctx, api, svc, arg(2))
	case "set":
		qty, convErr := strconv.Atoi(arg(3))
		if convErr != nil {
			err = fmt.Errorf("quantity must be a number: %q", arg(3))
			break
		}
		err = svc.SetQuantity(ctx, arg(2), qty)
	case "inc":
		err = svc.ChangeQuantity(ctx, arg(2), 1)
	case "dec":
		err = svc.ChangeQuantity(ctx, arg(2), -1)
	case "cart":
		err = showCart(ctx, svc)
	case "clear":
		err = svc.Clear(ctx)
	case "checkout":
		err = doCheckout(ctx, api, svc, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "cartctl: %v\n", err)
		os.Exit(1)
	}
}

func arg(i int) string {
	if len(os.Args) <= i {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	return os.Args[i]
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCartPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cart_v1.json"
	}
	return filepath.Join(home, ".therwatt", "cart_v1.json")
}

func listProducts(ctx context.Context, api *client.Client) error {
	cfg := api.FetchConfig(ctx)
	products, err := api.FetchProducts(ctx)
	if err != nil {
		return err
	}

	note := ""
	if cfg.Provisional {
		note = " (provisional, config unavailable)"
	}
	fmt.Printf("discount: %d%%%s\n\n", int(cfg.DiscountRate*100), note)

	for _, p := range products {
		fmt.Printf("%-10s %-40s %-5s %10s\n", p.SKU, p.Name, p.Unit, displayPrice(p, cfg.DiscountRate))
	}
	return nil
}

func displayPrice(p catalog.Product, rate float64) string {
	gross, ok := p.Gross()
	if !ok {
		return "-"
	}
	price, err := pricing.UnitPrice(gross, rate)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.2f kr", price)
}

func addToCart(ctx context.Context, api *client.Client, svc *cart.Service, sku string) error {
	cfg := api.FetchConfig(ctx)
	products, err := api.FetchProducts(ctx)
	if err != nil {
		return err
	}

	for _, p := range products {
		if p.SKU != sku {
			continue
		}
		gross, ok := p.Gross()
		if !ok {
			return fmt.Errorf("product %s has no price and cannot be added", sku)
		}
		price, err := pricing.UnitPrice(gross, cfg.DiscountRate)
		if err != nil {
			return fmt.Errorf("product %s has no price and cannot be added", sku)
		}
		return svc.Add(ctx, p, price)
	}
	return fmt.Errorf("product %s not found in catalog", sku)
}

func showCart(ctx context.Context, svc *cart.Service) error {
	lines, err := svc.Lines(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	for _, l := range lines {
		fmt.Printf("%-10s %-40s %3d x %8.2f kr = %10.2f kr\n",
			l.SKU, l.Name, l.Quantity, l.UnitPrice, float64(l.Quantity)*l.UnitPrice)
	}
	fmt.Printf("\nitems: %d  subtotal: %.2f kr\n", cart.Count(lines), cart.Subtotal(lines))
	return nil
}

func doCheckout(ctx context.Context, api *client.Client, svc *cart.Service, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	email := fs.String("email", "", "customer email")
	note := fs.String("note", "", "customer note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lines, err := svc.Lines(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("cart is empty")
	}

	cfg := api.FetchConfig(ctx)
	if !cfg.CheckoutEnabled() {
		return fmt.Errorf("checkout is unavailable right now, try again later")
	}

	items := make([]checkout.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, checkout.Item{SKU: l.SKU, Quantity: l.Quantity})
	}

	id, err := api.CreateCheckout(ctx, checkout.Request{
		Items:         items,
		CustomerEmail: *email,
		CustomerNote:  *note,
	})
	if err != nil {
		return err
	}

	fmt.Printf("payment session created: %s\ncomplete the payment with handle %s\n", id, cfg.PaymentProviderHandle)
	return nil
}
