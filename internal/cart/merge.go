package cart

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

// lineKey canonicalizes the parts of a cart line that make it mergeable.
// Modifications are order-sensitive (they describe preparation steps);
// customizations are a map and compare in sorted-key order; notes compare
// after trimming.
type lineKey struct {
	menuItemID     uuid.UUID
	modifications  string
	customizations string
	note           string
}

func keyFor(menuItemID uuid.UUID, modifications []string, customizations map[string]string, note *string) lineKey {
	keys := make([]string, 0, len(customizations))
	for k := range customizations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var custom strings.Builder
	for _, k := range keys {
		custom.WriteString(k)
		custom.WriteByte('=')
		custom.WriteString(customizations[k])
		custom.WriteByte(';')
	}

	trimmedNote := ""
	if note != nil {
		trimmedNote = strings.TrimSpace(*note)
	}

	return lineKey{
		menuItemID:     menuItemID,
		modifications:  strings.Join(modifications, "\x1f"),
		customizations: custom.String(),
		note:           trimmedNote,
	}
}

// findMergeTarget returns the existing cart item the new line should merge
// into, or nil when the line is distinct.
func findMergeTarget(items []models.CartItem, key lineKey) *models.CartItem {
	for i := range items {
		existing := keyFor(items[i].MenuItemID, items[i].Modifications, items[i].Customizations, items[i].Note)
		if existing == key {
			return &items[i]
		}
	}
	return nil
}
