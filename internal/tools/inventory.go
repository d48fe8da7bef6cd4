package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/repository"
)

// InventoryTool answers availability questions from the equipment catalog.
type InventoryTool struct {
	equipment repository.EquipmentRepository
}

// NewInventoryTool creates the check_inventory tool.
func NewInventoryTool(equipment repository.EquipmentRepository) *InventoryTool {
	return &InventoryTool{equipment: equipment}
}

// Definition returns the registry entry for check_inventory (sync).
func (t *InventoryTool) Definition() *Definition {
	return &Definition{
		Name:    ToolNameCheckInventory,
		Async:   false,
		Handler: t.Execute,
	}
}

// Execute searches the catalog and formats a spoken summary of the matches.
func (t *InventoryTool) Execute(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
	query := strings.TrimSpace(stringArg(args, "query"))
	if query == "" {
		return "What equipment are you looking for?", nil
	}

	items, err := t.equipment.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("inventory search failed: %w", err)
	}

	if len(items) == 0 {
		return fmt.Sprintf("I couldn't find anything matching %q in our inventory. Could you describe it differently?", query), nil
	}

	return formatInventoryResults(query, items), nil
}

// formatInventoryResults renders matches as one spoken-friendly sentence per
// item: name, availability and daily rate.
func formatInventoryResults(query string, items []*domain.Equipment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's what we have matching %q: ", query)

	lines := make([]string, 0, len(items))
	for _, item := range items {
		availability := "available now"
		if !item.Available {
			availability = "currently rented out"
		}
		lines = append(lines, fmt.Sprintf("%s, %s, at $%.2f per day", item.Name, availability, item.DailyRate))
	}
	b.WriteString(strings.Join(lines, "; "))
	b.WriteString(".")
	return b.String()
}
