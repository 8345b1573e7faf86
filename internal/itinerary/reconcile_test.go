package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-backend/internal/models"
)

func place(id, name string) *models.Place {
	return &models.Place{ID: id, Name: name}
}

func ids(places []*models.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}

func parisPlaces() []*models.Place {
	return []*models.Place{
		place("A", "Louvre"),
		place("B", "Eiffel Tower"),
		place("C", "Arc de Triomphe"),
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		places []*models.Place
		order  []string
		want   []string
	}{
		{
			name:   "suggested order first then remaining",
			places: parisPlaces(),
			order:  []string{"Eiffel Tower", "Louvre"},
			want:   []string{"B", "A", "C"},
		},
		{
			name:   "empty order keeps input order",
			places: parisPlaces(),
			order:  []string{},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "nil order keeps input order",
			places: parisPlaces(),
			order:  nil,
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "unknown names are ignored",
			places: parisPlaces(),
			order:  []string{"NoSuchName"},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "match is case sensitive",
			places: parisPlaces(),
			order:  []string{"louvre", "Arc de Triomphe"},
			want:   []string{"C", "A", "B"},
		},
		{
			name: "duplicate place names fall through in order",
			places: []*models.Place{
				place("A1", "Cafe"),
				place("B", "Museum"),
				place("A2", "Cafe"),
				place("A3", "Cafe"),
			},
			order: []string{"Cafe", "Museum"},
			want:  []string{"A1", "B", "A2", "A3"},
		},
		{
			name: "repeated suggestion picks the next duplicate",
			places: []*models.Place{
				place("A1", "Cafe"),
				place("B", "Museum"),
				place("A2", "Cafe"),
			},
			order: []string{"Cafe", "Cafe"},
			want:  []string{"A1", "A2", "B"},
		},
		{
			name:   "more suggestions than places",
			places: []*models.Place{place("A", "Louvre")},
			order:  []string{"Louvre", "Louvre", "Eiffel Tower"},
			want:   []string{"A"},
		},
		{
			name:   "no places",
			places: nil,
			order:  []string{"Louvre"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.places, tt.order)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestReconcile_IsPermutation(t *testing.T) {
	places := []*models.Place{
		place("1", "Colosseum"),
		place("2", "Pantheon"),
		place("3", "Colosseum"),
		place("4", "Trevi Fountain"),
		place("5", "Vatican"),
	}
	orders := [][]string{
		{"Vatican", "Colosseum", "Colosseum", "Colosseum"},
		{"Trevi Fountain", "Missing", "Pantheon"},
		{"Vatican", "Trevi Fountain", "Colosseum", "Pantheon", "Colosseum"},
	}

	for _, order := range orders {
		got := Reconcile(places, order)
		require.Len(t, got, len(places))
		assert.ElementsMatch(t, ids(places), ids(got))
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	places := parisPlaces()
	order := []string{"Arc de Triomphe", "Louvre"}

	first := Reconcile(places, order)
	second := Reconcile(places, order)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, []string{"A", "B", "C"}, ids(places), "input must not be reordered")
}

func TestSortKeys(t *testing.T) {
	assert.Equal(t, []int64{1000, 1010, 1020}, SortKeys(1000, 10, 3))
	assert.Equal(t, []int64{5, 6}, SortKeys(5, 0, 2))
	assert.Empty(t, SortKeys(5, 1, 0))
}
