package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/wire"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage milk types and RTD&E items",
}

var catalogMilkCmd = &cobra.Command{
	Use:   "milk",
	Short: "Manage milk types and par values",
}

var catalogRTDECmd = &cobra.Command{
	Use:   "rtde",
	Short: "Manage RTD&E items",
}

var catalogMilkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List milk types in counting order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		all, _ := cmd.Flags().GetBool("all")

		types, err := wire.CatalogService().ListMilkTypes(ctx, !all)
		if err != nil {
			return fmt.Errorf("failed to list milk types: %w", err)
		}
		if len(types) == 0 {
			fmt.Println("No milk types found")
			fmt.Println("  storeops db seed")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tORDER\tPAR\tACTIVE")
		fmt.Fprintln(w, "--\t----\t--------\t-----\t---\t------")
		for _, t := range types {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\n", t.ID, t.Name, t.Category, t.DisplayOrder, t.ParValue, t.Active)
		}
		return w.Flush()
	},
}

var catalogMilkAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a milk type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		category, _ := cmd.Flags().GetString("category")
		order, _ := cmd.Flags().GetInt("order")
		req := primary.CreateMilkTypeRequest{Name: args[0], Category: category, DisplayOrder: order}
		if cmd.Flags().Changed("par") {
			par, _ := cmd.Flags().GetInt("par")
			req.ParValue = &par
		}
		if user, err := ResolveUser(); err == nil {
			req.ActorID = user
		}

		mt, err := wire.CatalogService().CreateMilkType(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to add milk type: %w", err)
		}
		fmt.Printf("✓ Added milk type %s: %s (par %d)\n", mt.ID, mt.Name, mt.ParValue)
		return nil
	},
}

var catalogMilkUpdateCmd = &cobra.Command{
	Use:   "update [milk-type-id]",
	Short: "Rename, recategorize, reorder or (de)activate a milk type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		req := primary.UpdateMilkTypeRequest{ID: args[0]}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("category") {
			v, _ := cmd.Flags().GetString("category")
			req.Category = &v
		}
		if cmd.Flags().Changed("order") {
			v, _ := cmd.Flags().GetInt("order")
			req.DisplayOrder = &v
		}
		if cmd.Flags().Changed("active") {
			v, _ := cmd.Flags().GetBool("active")
			req.Active = &v
		}

		mt, err := wire.CatalogService().UpdateMilkType(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to update milk type: %w", err)
		}
		fmt.Printf("✓ Updated milk type %s: %s\n", mt.ID, mt.Name)
		return nil
	},
}

var catalogMilkParCmd = &cobra.Command{
	Use:   "par [milk-type-id] [value]",
	Short: "Set the par value for a milk type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		par, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid par value %q: %w", args[1], err)
		}
		req := primary.SetParRequest{MilkTypeID: args[0], ParValue: &par}
		if user, err := ResolveUser(); err == nil {
			req.ActorID = user
		}

		mt, err := wire.CatalogService().SetMilkPar(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to set par: %w", err)
		}
		fmt.Printf("✓ %s par set to %d\n", mt.Name, mt.ParValue)
		return nil
	},
}

var catalogMilkReorderCmd = &cobra.Command{
	Use:   "reorder [milk-type-id...]",
	Short: "Set counting order to the given id sequence",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.CatalogService().ReorderMilkTypes(NewContext(), args); err != nil {
			return fmt.Errorf("failed to reorder milk types: %w", err)
		}
		fmt.Printf("✓ Reordered %d milk types\n", len(args))
		return nil
	},
}

var catalogRTDEListCmd = &cobra.Command{
	Use:   "list",
	Short: "List RTD&E items in counting order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		all, _ := cmd.Flags().GetBool("all")

		items, err := wire.CatalogService().ListRTDEItems(ctx, !all)
		if err != nil {
			return fmt.Errorf("failed to list RTD&E items: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No RTD&E items found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBRAND\tPAR\tORDER\tACTIVE")
		fmt.Fprintln(w, "--\t----\t-----\t---\t-----\t------")
		for _, it := range items {
			brand := it.Brand
			if brand == "" {
				brand = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\n", it.ID, it.Name, brand, it.ParLevel, it.DisplayOrder, it.Active)
		}
		return w.Flush()
	},
}

var catalogRTDEAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an RTD&E item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		brand, _ := cmd.Flags().GetString("brand")
		icon, _ := cmd.Flags().GetString("icon")
		par, _ := cmd.Flags().GetInt("par")
		order, _ := cmd.Flags().GetInt("order")

		item, err := wire.CatalogService().CreateRTDEItem(ctx, primary.CreateRTDEItemRequest{
			Name:         args[0],
			Brand:        brand,
			Icon:         icon,
			ParLevel:     par,
			DisplayOrder: order,
		})
		if err != nil {
			return fmt.Errorf("failed to add RTD&E item: %w", err)
		}
		fmt.Printf("✓ Added RTD&E item %s: %s (par %d)\n", item.ID, item.Name, item.ParLevel)
		return nil
	},
}

var catalogRTDEUpdateCmd = &cobra.Command{
	Use:   "update [item-id]",
	Short: "Update or (de)activate an RTD&E item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		req := primary.UpdateRTDEItemRequest{ID: args[0]}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("brand") {
			v, _ := cmd.Flags().GetString("brand")
			req.Brand = &v
		}
		if cmd.Flags().Changed("icon") {
			v, _ := cmd.Flags().GetString("icon")
			req.Icon = &v
		}
		if cmd.Flags().Changed("par") {
			v, _ := cmd.Flags().GetInt("par")
			req.ParLevel = &v
		}
		if cmd.Flags().Changed("order") {
			v, _ := cmd.Flags().GetInt("order")
			req.DisplayOrder = &v
		}
		if cmd.Flags().Changed("active") {
			v, _ := cmd.Flags().GetBool("active")
			req.Active = &v
		}

		item, err := wire.CatalogService().UpdateRTDEItem(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to update RTD&E item: %w", err)
		}
		fmt.Printf("✓ Updated RTD&E item %s: %s\n", item.ID, item.Name)
		return nil
	},
}

var catalogRTDEReorderCmd = &cobra.Command{
	Use:   "reorder [item-id...]",
	Short: "Set counting order to the given id sequence",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.CatalogService().ReorderRTDEItems(NewContext(), args); err != nil {
			return fmt.Errorf("failed to reorder RTD&E items: %w", err)
		}
		fmt.Printf("✓ Reordered %d RTD&E items\n", len(args))
		return nil
	},
}

// CatalogCmd returns the catalog command
func CatalogCmd() *cobra.Command {
	// Add flags
	catalogMilkListCmd.Flags().Bool("all", false, "Include inactive milk types")
	catalogMilkAddCmd.Flags().String("category", "dairy", "Category (dairy, non_dairy)")
	catalogMilkAddCmd.Flags().Int("order", 1, "Display order (1 = counted first)")
	catalogMilkAddCmd.Flags().Int("par", 0, "Initial par value")
	catalogMilkUpdateCmd.Flags().String("name", "", "New name")
	catalogMilkUpdateCmd.Flags().String("category", "", "New category (dairy, non_dairy)")
	catalogMilkUpdateCmd.Flags().Int("order", 0, "New display order")
	catalogMilkUpdateCmd.Flags().Bool("active", true, "Active flag")

	catalogRTDEListCmd.Flags().Bool("all", false, "Include inactive items")
	catalogRTDEAddCmd.Flags().String("brand", "", "Brand")
	catalogRTDEAddCmd.Flags().String("icon", "", "Display icon")
	catalogRTDEAddCmd.Flags().Int("par", 0, "Par level")
	catalogRTDEAddCmd.Flags().Int("order", 1, "Display order")
	catalogRTDEUpdateCmd.Flags().String("name", "", "New name")
	catalogRTDEUpdateCmd.Flags().String("brand", "", "New brand")
	catalogRTDEUpdateCmd.Flags().String("icon", "", "New icon")
	catalogRTDEUpdateCmd.Flags().Int("par", 0, "New par level")
	catalogRTDEUpdateCmd.Flags().Int("order", 0, "New display order")
	catalogRTDEUpdateCmd.Flags().Bool("active", true, "Active flag")

	// Add subcommands
	catalogMilkCmd.AddCommand(catalogMilkListCmd)
	catalogMilkCmd.AddCommand(catalogMilkAddCmd)
	catalogMilkCmd.AddCommand(catalogMilkUpdateCmd)
	catalogMilkCmd.AddCommand(catalogMilkParCmd)
	catalogMilkCmd.AddCommand(catalogMilkReorderCmd)

	catalogRTDECmd.AddCommand(catalogRTDEListCmd)
	catalogRTDECmd.AddCommand(catalogRTDEAddCmd)
	catalogRTDECmd.AddCommand(catalogRTDEUpdateCmd)
	catalogRTDECmd.AddCommand(catalogRTDEReorderCmd)

	catalogCmd.AddCommand(catalogMilkCmd)
	catalogCmd.AddCommand(catalogRTDECmd)

	return catalogCmd
}
