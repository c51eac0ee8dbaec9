package gen

import (
	"testing"

	"github.com/npagen/npagen/compiler/load"
	"github.com/npagen/npagen/schema/field"

	"github.com/stretchr/testify/require"
)

// customerOrderGraph builds a minimal two-type graph: Customer has many
// Orders (inverse O2M), Order belongs to one Customer (owner M2O) and has
// many Tags through a join table (M2M) — enough relationship shapes to
// exercise every PlanRepository branch.
func customerOrderGraph(t *testing.T) (customer, order, tag *Type) {
	t.Helper()

	customer, err := NewType(&Config{Package: "npagen/gen"}, &load.Schema{
		Name: "Customer",
		Fields: []*load.Field{
			{Name: "name", Info: &field.TypeInfo{Type: field.TypeString}},
		},
	})
	require.NoError(t, err)

	order, err = NewType(&Config{Package: "npagen/gen"}, &load.Schema{
		Name: "Order",
		Fields: []*load.Field{
			{Name: "amount", Info: &field.TypeInfo{Type: field.TypeFloat64}},
			{Name: "quantity", Info: &field.TypeInfo{Type: field.TypeInt}},
		},
	})
	require.NoError(t, err)

	tag, err = NewType(&Config{Package: "npagen/gen"}, &load.Schema{
		Name: "Tag",
		Fields: []*load.Field{
			{Name: "name", Info: &field.TypeInfo{Type: field.TypeString}},
		},
	})
	require.NoError(t, err)

	orders := &Edge{Name: "orders", Type: order, Owner: customer, Rel: Relation{Type: O2M}}
	customerEdge := &Edge{Name: "customer", Type: customer, Owner: order, Inverse: "orders", Rel: Relation{Type: M2O}}
	order.Edges = append(order.Edges, customerEdge)
	customer.Edges = append(customer.Edges, orders)

	tags := &Edge{Name: "tags", Type: tag, Owner: order, Rel: Relation{Type: M2M}}
	order.Edges = append(order.Edges, tags)

	return customer, order, tag
}

func TestPlanRepositoryOwnerSide(t *testing.T) {
	_, order, _ := customerOrderGraph(t)

	methods, err := PlanRepository(order)
	require.NoError(t, err)

	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	require.Contains(t, names, "FindByCustomerIdAsync")
	require.Contains(t, names, "CountByCustomerIdAsync")

	require.Contains(t, names, "FindByCustomerIdPagedAsync")

	var paginated int
	for _, m := range methods {
		if m.Name == "FindByCustomerIdPagedAsync" && m.Paginated {
			paginated++
		}
	}
	require.Equal(t, 1, paginated)
}

func TestPlanRepositoryInverseSide(t *testing.T) {
	customer, _, _ := customerOrderGraph(t)

	methods, err := PlanRepository(customer)
	require.NoError(t, err)

	byName := map[string]*DerivedMethod{}
	for _, m := range methods {
		byName[m.Name] = m
	}

	require.Contains(t, byName, "HasOrdersAsync")
	require.Equal(t, DerivedRelationHas, byName["HasOrdersAsync"].Kind)
	require.Contains(t, byName, "CountOrdersAsync")
	require.Contains(t, byName, "FindWithOrdersAsync")
	require.Contains(t, byName, "FindWithoutOrdersAsync")
	require.Contains(t, byName, "FindWithOrdersCountAsync")
	require.Contains(t, byName, "GetOrdersSummaryAsync")
	require.Equal(t, DerivedGroupSummary, byName["GetOrdersSummaryAsync"].Kind)

	require.Contains(t, byName, "GetTotalOrdersAmountAsync")
	require.Equal(t, AggTotal, byName["GetTotalOrdersAmountAsync"].Agg)
	require.Contains(t, byName, "GetAverageOrdersAmountAsync")
	require.Contains(t, byName, "GetMinOrdersQuantityAsync")
	require.Contains(t, byName, "GetMaxOrdersQuantityAsync")
}

func TestPlanRepositoryManyToMany(t *testing.T) {
	_, order, _ := customerOrderGraph(t)

	methods, err := PlanRepository(order)
	require.NoError(t, err)

	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	require.Contains(t, names, "GetTagsAsync")
	require.Contains(t, names, "AddTagsAsync")
	require.Contains(t, names, "RemoveTagsAsync")
	require.Contains(t, names, "HasTagsAsync")
}

func TestPlanRepositoryComplexFiltersDisabledByDefault(t *testing.T) {
	_, order, _ := customerOrderGraph(t)

	methods, err := PlanRepository(order)
	require.NoError(t, err)

	for _, m := range methods {
		require.NotEqual(t, "FindByCustomerNameAsync", m.Name)
	}
}

func TestPlanRepositoryComplexFiltersEnabled(t *testing.T) {
	_, order, _ := customerOrderGraph(t)
	require.NoError(t, order.Config.Apply(WithComplexFilters(true)))

	methods, err := PlanRepository(order)
	require.NoError(t, err)

	var found bool
	for _, m := range methods {
		if m.Name == "FindByCustomerNameAsync" {
			found = true
		}
	}
	require.True(t, found)
}

func TestAggregateFuncSQL(t *testing.T) {
	require.Equal(t, "SUM", AggTotal.SQLFunc())
	require.Equal(t, "AVG", AggAverage.SQLFunc())
	require.Equal(t, "MIN", AggMin.SQLFunc())
	require.Equal(t, "MAX", AggMax.SQLFunc())
}
