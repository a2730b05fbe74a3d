// Package browse is the interactive storefront: one line per command, with
// the listing re-rendered after every change.
package browse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/listing"
	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/products"
	"github.com/lukman83/storefront/internal/query"
	"github.com/lukman83/storefront/internal/sidebar"
	"github.com/lukman83/storefront/internal/ui"
	"github.com/lukman83/storefront/internal/validate"
)

// ProductSource loads the detail view of one product.
type ProductSource interface {
	Product(ctx context.Context, id int) (*models.Product, error)
}

// Shell wires the listing, the category menu and mutations to a line-based
// terminal.
type Shell struct {
	Listing    *listing.Coordinator
	Categories *listing.Categories
	Menu       *sidebar.Store
	Products   *products.Service
	Detail     ProductSource
	Log        zerolog.Logger
}

var errQuit = errors.New("quit")

// Run reads commands from in until EOF or "quit".
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	go func() { _, _ = s.Categories.Load(ctx) }()

	s.apply(ctx, out, s.Listing.Refresh(ctx))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := s.exec(ctx, out, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Shell) exec(ctx context.Context, out io.Writer, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	s.Log.Debug().Str("command", name).Msg("browse command")

	switch strings.ToLower(name) {
	case "help", "?":
		printHelp(out)
	case "quit", "exit", "q":
		return errQuit
	case "refresh", "r":
		s.apply(ctx, out, s.Listing.Refresh(ctx))
	case "search", "s":
		s.update(ctx, out, func(st *query.State) { st.SetSearch(rest) })
	case "sort":
		field, err := query.ParseSortField(rest)
		if err != nil {
			return err
		}
		s.update(ctx, out, func(st *query.State) { st.SetSortField(field) })
	case "order":
		order, err := query.ParseSortOrder(rest)
		if err != nil {
			return err
		}
		s.update(ctx, out, func(st *query.State) { st.SetSortOrder(order) })
	case "cat", "category":
		if len(args) != 1 {
			return fmt.Errorf("usage: cat <slug>")
		}
		s.warnUnknown(out, args[0])
		s.update(ctx, out, func(st *query.State) { st.ToggleCategory(args[0]) })
	case "cats":
		if rest != "clear" {
			return fmt.Errorf("usage: cats clear")
		}
		s.update(ctx, out, func(st *query.State) { st.ClearCategories() })
	case "page", "p":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("usage: page <n>")
		}
		return s.gotoPage(ctx, out, n)
	case "next", "n":
		return s.gotoPage(ctx, out, s.Listing.Snapshot().State.Page()+1)
	case "prev":
		return s.gotoPage(ctx, out, s.Listing.Snapshot().State.Page()-1)
	case "menu":
		return s.menu(ctx, out, rest)
	case "show":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		p, err := s.Detail.Product(ctx, id)
		if err != nil {
			return err
		}
		ui.PrintProduct(out, *p)
	case "add":
		return s.add(ctx, out, rest)
	case "edit":
		return s.edit(ctx, out, args)
	case "delete", "rm":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if _, err := s.Products.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted product %d.\n", id)
		s.render(ctx, out, s.Listing.Snapshot())
	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
	return nil
}

func (s *Shell) update(ctx context.Context, out io.Writer, fn func(*query.State)) {
	s.apply(ctx, out, s.Listing.Update(ctx, fn))
}

func (s *Shell) apply(ctx context.Context, out io.Writer, gen uint64) {
	snap, err := s.Listing.Await(ctx, gen)
	if err != nil && snap.Status != listing.Failed {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	s.render(ctx, out, snap)
}

func (s *Shell) gotoPage(ctx context.Context, out io.Writer, n int) error {
	snap := s.Listing.Snapshot()
	if n < 1 {
		return fmt.Errorf("already on the first page")
	}
	if snap.Status == listing.Loaded && n > snap.TotalPages {
		return fmt.Errorf("page %d is past the last page (%d)", n, snap.TotalPages)
	}
	var pageErr error
	s.update(ctx, out, func(st *query.State) { pageErr = st.SetPage(n) })
	return pageErr
}

// render shows the category panel while the menu is open, then the listing.
func (s *Shell) render(ctx context.Context, out io.Writer, snap listing.Snapshot) {
	if s.Menu.IsOpen() {
		s.printMenu(ctx, out, snap.State)
	}
	st := snap.State
	fmt.Fprintln(out, describe(st))
	switch snap.Status {
	case listing.Failed:
		fmt.Fprintf(out, "Error: %v\n", snap.Err)
		return
	case listing.Loading:
		fmt.Fprintln(out, "Loading...")
		return
	}
	ui.PrintProducts(out, snap.Items, offset(snap))
	ui.PrintPagination(out, st.Page(), snap.TotalPages, snap.Total)
}

func (s *Shell) menu(ctx context.Context, out io.Writer, arg string) error {
	switch arg {
	case "open", "":
		s.Menu.Open()
		s.printMenu(ctx, out, s.Listing.State())
	case "close":
		if s.Menu.Close() {
			fmt.Fprintln(out, "Category menu closed.")
		}
	default:
		return fmt.Errorf("usage: menu open|close")
	}
	return nil
}

func (s *Shell) printMenu(ctx context.Context, out io.Writer, st query.State) {
	cats, err := s.Categories.Load(ctx)
	if err != nil {
		fmt.Fprintf(out, "Could not load categories: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Categories:")
	ui.PrintCategories(out, cats, st.HasCategory)
}

func (s *Shell) add(ctx context.Context, out io.Writer, rest string) error {
	fields := parseAssignments(rest)
	form := validate.ProductForm{
		Title:       fields["title"],
		Description: fields["description"],
		Price:       fields["price"],
		Category:    fields["category"],
	}
	p, err := s.Products.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created product %d (%s).\n", p.ID, p.Title)
	return nil
}

func (s *Shell) edit(ctx context.Context, out io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <id> field=value ...")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}
	fields := parseAssignments(strings.Join(args[1:], " "))
	var form validate.PatchForm
	for k, v := range fields {
		switch k {
		case "title":
			form.Title = &v
		case "description":
			form.Description = &v
		case "price":
			form.Price = &v
		case "category":
			form.Category = &v
		default:
			return fmt.Errorf("unknown field %q", k)
		}
	}
	p, err := s.Products.Update(ctx, id, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated product %d (%s).\n", p.ID, p.Title)
	s.render(ctx, out, s.Listing.Snapshot())
	return nil
}

func (s *Shell) warnUnknown(out io.Writer, slug string) {
	st := s.Categories.State()
	if st.Loading || st.Err != nil || len(st.Items) == 0 {
		return
	}
	if _, ok := s.Categories.Lookup(slug); !ok {
		fmt.Fprintf(out, "Warning: %q is not a known category.\n", slug)
	}
}

func describe(st query.State) string {
	parts := []string{}
	if st.Search() != "" {
		parts = append(parts, fmt.Sprintf("search %q", st.Search()))
	} else if cats := st.Categories(); len(cats) > 0 {
		parts = append(parts, "categories "+strings.Join(cats, ", "))
	} else {
		parts = append(parts, "all products")
	}
	if st.SortField() != query.SortNone {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", st.SortField(), st.SortOrder()))
	}
	return "== " + strings.Join(parts, ", ") + " =="
}

// offset numbers the items; the category branch shows every item from 1.
func offset(snap listing.Snapshot) int {
	if snap.State.Search() == "" && len(snap.State.Categories()) > 0 {
		return 0
	}
	return snap.State.Offset()
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one product id")
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

// parseAssignments reads `key=value key2=multi word value` pairs. A value
// runs until the next token containing '='.
func parseAssignments(s string) map[string]string {
	out := map[string]string{}
	key := ""
	for _, tok := range strings.Fields(s) {
		if k, v, ok := strings.Cut(tok, "="); ok && k != "" {
			key = strings.ToLower(k)
			out[key] = v
			continue
		}
		if key != "" {
			out[key] = strings.TrimSpace(out[key] + " " + tok)
		}
	}
	return out
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  search <text>           search products (empty text clears)
  sort <title|price|rating|none>
  order <asc|desc>
  cat <slug>              toggle a category filter
  cats clear              clear category filters
  page <n> | next | prev
  menu open|close         show or hide the category menu
  show <id>               product detail with reviews
  add title=.. description=.. price=.. category=..
  edit <id> field=value   change title, description, price or category
  delete <id>
  refresh | help | quit
`)
}
