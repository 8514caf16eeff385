package analytics

import "sort"

// OwnershipMatrix maps (contributor, folder) to a non-negative weighted
// contribution score. Rows are raw weight, normalized only at consumption
// time. A folder with zero recorded activity is absent, never present with
// score zero.
type OwnershipMatrix struct {
	// Cells maps contributor identity to folder to weight.
	Cells map[string]map[string]float64 `json:"cells"`
}

// NewOwnershipMatrix returns an empty matrix.
func NewOwnershipMatrix() *OwnershipMatrix {
	return &OwnershipMatrix{Cells: make(map[string]map[string]float64)}
}

// Add accumulates weight into a cell. Non-positive weight is ignored so
// the non-negativity invariant holds by construction.
func (m *OwnershipMatrix) Add(contributor, folder string, weight float64) {
	if weight <= 0 {
		return
	}
	row := m.Cells[contributor]
	if row == nil {
		row = make(map[string]float64)
		m.Cells[contributor] = row
	}
	row[folder] += weight
}

// Weight returns the score for one cell, zero when absent.
func (m *OwnershipMatrix) Weight(contributor, folder string) float64 {
	return m.Cells[contributor][folder]
}

// Contributors returns all contributor identities in stable order.
func (m *OwnershipMatrix) Contributors() []string {
	out := make([]string, 0, len(m.Cells))
	for c := range m.Cells {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Folders returns every folder with recorded weight, in stable order.
func (m *OwnershipMatrix) Folders() []string {
	seen := make(map[string]bool)
	for _, row := range m.Cells {
		for f := range row {
			seen[f] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// FolderTotals sums weight per folder across all contributors.
func (m *OwnershipMatrix) FolderTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, row := range m.Cells {
		for f, w := range row {
			totals[f] += w
		}
	}
	return totals
}

// WithoutContributors returns a new matrix with the given contributors'
// weight subtracted outright. The remaining rows are copied untouched; no
// renormalization happens, so folders owned solely by the removed
// identities vanish from the matrix.
func (m *OwnershipMatrix) WithoutContributors(removed map[string]bool) *OwnershipMatrix {
	out := NewOwnershipMatrix()
	for c, row := range m.Cells {
		if removed[c] {
			continue
		}
		dst := make(map[string]float64, len(row))
		for f, w := range row {
			dst[f] = w
		}
		out.Cells[c] = dst
	}
	return out
}
