package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcePaths(t *testing.T) {
	r, ok := LookupResource("purchaseOrder")
	require.True(t, ok)

	assert.Equal(t, "PurchaseOrder", r.Pascal())
	assert.Equal(t, "/api/trpc/purchaseOrders.list", r.ListPath())
	assert.Equal(t, "/api/trpc/purchaseOrders.search", r.SearchPath())
	assert.Equal(t, "/api/trpc/purchaseOrders.create", r.CreatePath())
	assert.Equal(t, "/api/trpc/purchaseOrders.update", r.UpdatePath())
	assert.Equal(t, "purchaseOrder.created", r.EventName(EventCreated))
	assert.Equal(t, "purchaseOrder.updated", r.EventName(EventUpdated))
}

func TestEventKindSortField(t *testing.T) {
	assert.Equal(t, "createdAt", EventCreated.SortField())
	assert.Equal(t, "updatedAt", EventUpdated.SortField())
}

func TestResourceTable(t *testing.T) {
	names := make([]string, 0)
	for _, r := range Resources() {
		names = append(names, r.Name)

		sample := r.SampleRecord()
		assert.NotEmpty(t, sample.ID(), "%s sample has no id", r.Name)
		assert.NotEmpty(t, DedupeKey(sample))
		assert.NotEmpty(t, r.CreateFields, "%s has no create fields", r.Name)
		assert.NotEmpty(t, r.UpdateFields, "%s has no update fields", r.Name)
		assert.NotEmpty(t, r.SearchFields, "%s has no search fields", r.Name)
		assert.Equal(t, "id", r.UpdateFields[0].Key)
		assert.True(t, r.UpdateFields[0].Required)
	}
	assert.Equal(t, []string{"task", "transaction", "ticket", "lead", "contact", "employee", "purchaseOrder"}, names)

	contact, ok := LookupResource("contact")
	require.True(t, ok)
	assert.False(t, contact.HasTriggers())

	_, ok = LookupResource("invoice")
	assert.False(t, ok)
}

func TestSamplesDecodeIntoEntities(t *testing.T) {
	task, _ := LookupResource("task")
	decoded, err := As[Task](task.SampleRecord())
	require.NoError(t, err)
	assert.True(t, decoded.Status.IsValid())
	assert.True(t, decoded.Priority.IsValid())

	po, _ := LookupResource("purchaseOrder")
	order, err := As[PurchaseOrder](po.SampleRecord())
	require.NoError(t, err)
	require.NotNil(t, order.TotalAmount)
	assert.Equal(t, int64(250000), *order.TotalAmount)
	assert.True(t, order.Status.IsValid())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, TicketStatusWaiting.IsValid())
	assert.False(t, TicketStatus("pending").IsValid())
	assert.True(t, LeadStatusUnqualified.IsValid())
	assert.True(t, EmployeeStatusOnLeave.IsValid())
	assert.False(t, EmployeeStatus("retired").IsValid())
	assert.True(t, TransactionTypeTransfer.IsValid())
	assert.False(t, Priority("critical").IsValid())
	assert.False(t, PurchaseOrderStatus("shipped").IsValid())
	assert.True(t, TaskStatusCancelled.IsValid())
}
