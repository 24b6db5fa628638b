package main

import (
	"context"
	"errors"
	"fmt"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
	"hostel-admin/internal/pages"
)

func (a *app) printItems(items []model.InventoryItem) error {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tITEM\tQUANTITY\tUNIT\tUPDATED")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%s\n", it.ID, it.ItemName, it.Quantity, dash(it.Unit), it.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *app) inventoryList(ctx context.Context, args []string) error {
	fs := a.flags("inventory list")
	query := fs.String("q", "", "item name contains")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewInventoryPage(c)
	if err := page.Load(ctx); err != nil {
		return err
	}
	return a.printItems(page.Search(*query))
}

func (a *app) inventoryAdd(ctx context.Context, args []string) error {
	fs := a.flags("inventory add")
	name := fs.String("name", "", "item name")
	qty := fs.Float64("qty", 0, "quantity in stock")
	unit := fs.String("unit", "", "unit, e.g. kg")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("inventory add: -name is required")
	}
	if *qty < 0 {
		return errors.New("inventory add: -qty cannot be negative")
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	it, err := pages.NewInventoryPage(c).Create(ctx, apiclient.ItemInput{ItemName: *name, Quantity: *qty, Unit: *unit})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (#%d): %g %s\n", it.ItemName, it.ID, it.Quantity, it.Unit)
	return nil
}

func (a *app) inventorySet(ctx context.Context, args []string) error {
	fs := a.flags("inventory set")
	name := fs.String("name", "", "item name")
	qty := fs.Float64("qty", 0, "quantity in stock")
	unit := fs.String("unit", "", "unit")
	raw, err := oneArg(fs, args, "item id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	set := visited(fs)
	if len(set) == 0 {
		return errors.New("inventory set: nothing to change")
	}
	if *qty < 0 {
		return errors.New("inventory set: -qty cannot be negative")
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	page := pages.NewInventoryPage(c)
	if err := page.Load(ctx); err != nil {
		return err
	}
	var cur *model.InventoryItem
	for _, it := range page.Items() {
		if it.ID == id {
			cur = &it
			break
		}
	}
	if cur == nil {
		return fmt.Errorf("no inventory item #%d in this hostel", id)
	}

	in := apiclient.ItemInput{
		ItemName: pick(set["name"], *name, cur.ItemName),
		Quantity: pick(set["qty"], *qty, cur.Quantity),
		Unit:     pick(set["unit"], *unit, cur.Unit),
	}
	if _, err := page.Update(ctx, id, in); err != nil {
		return err
	}
	a.notice(page)
	return nil
}

func (a *app) inventoryRemove(ctx context.Context, args []string) error {
	fs := a.flags("inventory rm")
	yes := fs.Bool("yes", false, "skip confirmation")
	raw, err := oneArg(fs, args, "item id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewInventoryPage(c)
	if err := page.Delete(ctx, id, a.confirmUnless(*yes, fmt.Sprintf("Delete inventory item %d?", id))); err != nil {
		return err
	}
	a.notice(page)
	return nil
}

func (a *app) inventoryLow(ctx context.Context, args []string) error {
	fs := a.flags("inventory low")
	threshold := fs.Float64("threshold", model.DefaultLowStockThreshold, "report items at or below this quantity")
	server := fs.Bool("server", false, "ask the server instead of filtering locally")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := pages.CheckThreshold(*threshold); err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	page := pages.NewInventoryPage(c)
	var low []model.InventoryItem
	if *server {
		low, err = page.ServerLowStock(ctx, *threshold)
	} else {
		if err := page.Load(ctx); err != nil {
			return err
		}
		low, err = page.LowStock(*threshold)
	}
	if err != nil {
		return err
	}
	if len(low) == 0 {
		fmt.Fprintf(a.out, "Nothing at or below %g\n", *threshold)
		return nil
	}
	return a.printItems(low)
}
