package automation

import (
	"strings"
	"time"
)

// FieldType describes how an input or output field is rendered and coerced
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldText     FieldType = "text"
	FieldInteger  FieldType = "integer"
	FieldMoney    FieldType = "money"
	FieldBoolean  FieldType = "boolean"
	FieldDateTime FieldType = "datetime"
	FieldEmail    FieldType = "email"
)

// Field describes one input or output field of a resource
type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Choices  []string  `json:"choices,omitempty"`
	HelpText string    `json:"helpText,omitempty"`
}

// EventKind is the change a trigger watches
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
)

// SortField returns the timestamp a polling list is ordered by
func (k EventKind) SortField() string {
	if k == EventUpdated {
		return "updatedAt"
	}
	return "createdAt"
}

// Resource is one row of the resource table: everything the generic trigger,
// action and search handlers need to serve an entity.
type Resource struct {
	Name         string // camelCase entity name, e.g. "purchaseOrder"
	Noun         string // display noun, e.g. "Purchase Order"
	Namespace    string // RPC namespace, e.g. "purchaseOrders"
	Event        string // webhook event prefix; empty when the backend emits no events
	SearchFields []Field
	CreateFields []Field
	UpdateFields []Field
	OutputFields []Field
	Sample       any
}

// Pascal returns the entity name with its first letter upper-cased
func (r Resource) Pascal() string {
	if r.Name == "" {
		return ""
	}
	return strings.ToUpper(r.Name[:1]) + r.Name[1:]
}

func (r Resource) path(op string) string {
	return "/api/trpc/" + r.Namespace + "." + op
}

// ListPath returns the polling list endpoint
func (r Resource) ListPath() string { return r.path("list") }

// SearchPath returns the lookup endpoint
func (r Resource) SearchPath() string { return r.path("search") }

// CreatePath returns the create endpoint
func (r Resource) CreatePath() string { return r.path("create") }

// UpdatePath returns the update endpoint
func (r Resource) UpdatePath() string { return r.path("update") }

// EventName returns the webhook event, e.g. "task.created"
func (r Resource) EventName(kind EventKind) string {
	return r.Event + "." + string(kind)
}

// HasTriggers reports whether the backend emits change events for the resource
func (r Resource) HasTriggers() bool {
	return r.Event != ""
}

// SampleRecord returns the sample as a Record
func (r Resource) SampleRecord() Record {
	rec, err := ToRecord(r.Sample)
	if err != nil {
		return Record{}
	}
	return rec
}

// ---------------------------------------------------------------------------
// Resource table
// ---------------------------------------------------------------------------

var sampleTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func idField(noun string) Field {
	return Field{Key: "id", Label: noun + " ID", Type: FieldInteger, Required: true}
}

func timestampFields() []Field {
	return []Field{
		{Key: "createdAt", Label: "Created At", Type: FieldDateTime},
		{Key: "updatedAt", Label: "Updated At", Type: FieldDateTime},
	}
}

func outputs(noun string, fields ...Field) []Field {
	out := []Field{{Key: "id", Label: noun + " ID", Type: FieldInteger}}
	out = append(out, fields...)
	return append(out, timestampFields()...)
}

var resources = []Resource{
	{
		Name:      "task",
		Noun:      "Task",
		Namespace: "tasks",
		Event:     "task",
		SearchFields: []Field{
			{Key: "id", Label: "Task ID", Type: FieldInteger},
			{Key: "title", Label: "Title", Type: FieldString},
		},
		CreateFields: []Field{
			{Key: "title", Label: "Title", Type: FieldString, Required: true},
			{Key: "description", Label: "Description", Type: FieldText},
			{Key: "status", Label: "Status", Type: FieldString, Choices: TaskStatuses},
			{Key: "priority", Label: "Priority", Type: FieldString, Choices: Priorities},
			{Key: "dueDate", Label: "Due Date", Type: FieldDateTime},
		},
		UpdateFields: []Field{
			idField("Task"),
			{Key: "title", Label: "Title", Type: FieldString, Required: true},
			{Key: "description", Label: "Description", Type: FieldText},
			{Key: "status", Label: "Status", Type: FieldString, Choices: TaskStatuses},
			{Key: "priority", Label: "Priority", Type: FieldString, Choices: Priorities},
			{Key: "dueDate", Label: "Due Date", Type: FieldDateTime},
		},
		OutputFields: outputs("Task",
			Field{Key: "title", Label: "Title", Type: FieldString},
			Field{Key: "description", Label: "Description", Type: FieldText},
			Field{Key: "status", Label: "Status", Type: FieldString},
			Field{Key: "priority", Label: "Priority", Type: FieldString},
			Field{Key: "dueDate", Label: "Due Date", Type: FieldDateTime},
		),
		Sample: Task{
			ID: 1, Title: "Sample Task", Description: "This is a sample task",
			Status: TaskStatusTodo, Priority: PriorityMedium, UserID: 1,
			CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "transaction",
		Noun:      "Transaction",
		Namespace: "transactions",
		Event:     "transaction",
		SearchFields: []Field{
			{Key: "id", Label: "Transaction ID", Type: FieldInteger},
		},
		CreateFields: []Field{
			{Key: "type", Label: "Type", Type: FieldString, Required: true, Choices: TransactionTypes},
			{Key: "amount", Label: "Amount", Type: FieldMoney, Required: true, HelpText: "Amount in cents"},
			{Key: "category", Label: "Category", Type: FieldString},
			{Key: "description", Label: "Description", Type: FieldText},
			{Key: "transactionDate", Label: "Transaction Date", Type: FieldDateTime},
		},
		UpdateFields: []Field{
			idField("Transaction"),
			{Key: "category", Label: "Category", Type: FieldString},
			{Key: "description", Label: "Description", Type: FieldText},
			{Key: "flagged", Label: "Flagged", Type: FieldBoolean},
		},
		OutputFields: outputs("Transaction",
			Field{Key: "type", Label: "Type", Type: FieldString},
			Field{Key: "amount", Label: "Amount", Type: FieldMoney},
			Field{Key: "category", Label: "Category", Type: FieldString},
			Field{Key: "description", Label: "Description", Type: FieldText},
			Field{Key: "flagged", Label: "Flagged", Type: FieldBoolean},
			Field{Key: "transactionDate", Label: "Transaction Date", Type: FieldDateTime},
		),
		Sample: Transaction{
			ID: 1, Type: TransactionTypeIncome, Amount: 150000, Category: "Sales",
			Description: "Sample transaction", TransactionDate: sampleTime, UserID: 1,
			CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "ticket",
		Noun:      "Ticket",
		Namespace: "tickets",
		Event:     "ticket",
		SearchFields: []Field{
			{Key: "id", Label: "Ticket ID", Type: FieldInteger},
			{Key: "title", Label: "Title", Type: FieldString},
		},
		CreateFields: []Field{
			{Key: "title", Label: "Title", Type: FieldString, Required: true},
			{Key: "description", Label: "Description", Type: FieldText},
			{Key: "priority", Label: "Priority", Type: FieldString, Choices: Priorities},
			{Key: "status", Label: "Status", Type: FieldString, Choices: TicketStatuses},
			{Key: "assignedTo", Label: "Assigned To", Type: FieldInteger},
		},
		UpdateFields: []Field{
			idField("Ticket"),
			{Key: "status", Label: "Status", Type: FieldString, Choices: TicketStatuses},
			{Key: "priority", Label: "Priority", Type: FieldString, Choices: Priorities},
			{Key: "assignedTo", Label: "Assigned To", Type: FieldInteger},
		},
		OutputFields: outputs("Ticket",
			Field{Key: "title", Label: "Title", Type: FieldString},
			Field{Key: "description", Label: "Description", Type: FieldText},
			Field{Key: "status", Label: "Status", Type: FieldString},
			Field{Key: "priority", Label: "Priority", Type: FieldString},
			Field{Key: "assignedTo", Label: "Assigned To", Type: FieldInteger},
		),
		Sample: Ticket{
			ID: 1, Title: "Sample Ticket", Description: "Customer cannot log in",
			Status: TicketStatusOpen, Priority: PriorityHigh, UserID: 1,
			CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "lead",
		Noun:      "Lead",
		Namespace: "leads",
		Event:     "lead",
		SearchFields: []Field{
			{Key: "id", Label: "Lead ID", Type: FieldInteger},
			{Key: "email", Label: "Email", Type: FieldEmail},
		},
		CreateFields: []Field{
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "company", Label: "Company", Type: FieldString},
			{Key: "phone", Label: "Phone", Type: FieldString},
			{Key: "source", Label: "Source", Type: FieldString},
		},
		UpdateFields: []Field{
			idField("Lead"),
			{Key: "status", Label: "Status", Type: FieldString, Choices: LeadStatuses},
			{Key: "score", Label: "Score", Type: FieldInteger},
		},
		OutputFields: outputs("Lead",
			Field{Key: "name", Label: "Name", Type: FieldString},
			Field{Key: "email", Label: "Email", Type: FieldEmail},
			Field{Key: "company", Label: "Company", Type: FieldString},
			Field{Key: "phone", Label: "Phone", Type: FieldString},
			Field{Key: "status", Label: "Status", Type: FieldString},
			Field{Key: "score", Label: "Score", Type: FieldInteger},
			Field{Key: "source", Label: "Source", Type: FieldString},
		),
		Sample: Lead{
			ID: 1, Name: "Jane Doe", Email: "jane@example.com", Company: "Acme Corp",
			Status: LeadStatusNew, Score: 50, Source: "Website", UserID: 1,
			CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "contact",
		Noun:      "Contact",
		Namespace: "contacts",
		SearchFields: []Field{
			{Key: "id", Label: "Contact ID", Type: FieldInteger},
			{Key: "email", Label: "Email", Type: FieldEmail},
		},
		CreateFields: []Field{
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "company", Label: "Company", Type: FieldString},
			{Key: "phone", Label: "Phone", Type: FieldString},
			{Key: "position", Label: "Position", Type: FieldString},
			{Key: "notes", Label: "Notes", Type: FieldText},
		},
		UpdateFields: []Field{
			idField("Contact"),
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "phone", Label: "Phone", Type: FieldString},
			{Key: "notes", Label: "Notes", Type: FieldText},
		},
		OutputFields: outputs("Contact",
			Field{Key: "name", Label: "Name", Type: FieldString},
			Field{Key: "email", Label: "Email", Type: FieldEmail},
			Field{Key: "phone", Label: "Phone", Type: FieldString},
			Field{Key: "company", Label: "Company", Type: FieldString},
			Field{Key: "position", Label: "Position", Type: FieldString},
		),
		Sample: Contact{
			ID: 1, Name: "John Smith", Email: "john@example.com", Company: "Acme Corp",
			Position: "CFO", UserID: 1, CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "employee",
		Noun:      "Employee",
		Namespace: "employees",
		Event:     "employee",
		SearchFields: []Field{
			{Key: "id", Label: "Employee Record ID", Type: FieldInteger},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "employeeId", Label: "Employee ID", Type: FieldString},
		},
		CreateFields: []Field{
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "employeeId", Label: "Employee ID", Type: FieldString},
			{Key: "email", Label: "Email", Type: FieldEmail},
			{Key: "department", Label: "Department", Type: FieldString},
			{Key: "position", Label: "Position", Type: FieldString},
			{Key: "hireDate", Label: "Hire Date", Type: FieldDateTime},
		},
		UpdateFields: []Field{
			idField("Employee Record"),
			{Key: "status", Label: "Status", Type: FieldString, Choices: EmployeeStatuses},
			{Key: "department", Label: "Department", Type: FieldString},
			{Key: "position", Label: "Position", Type: FieldString},
		},
		OutputFields: outputs("Employee Record",
			Field{Key: "employeeId", Label: "Employee ID", Type: FieldString},
			Field{Key: "name", Label: "Name", Type: FieldString},
			Field{Key: "email", Label: "Email", Type: FieldEmail},
			Field{Key: "department", Label: "Department", Type: FieldString},
			Field{Key: "position", Label: "Position", Type: FieldString},
			Field{Key: "hireDate", Label: "Hire Date", Type: FieldDateTime},
			Field{Key: "status", Label: "Status", Type: FieldString},
		),
		Sample: Employee{
			ID: 1, EmployeeID: "EMP-001", Name: "Alex Chen", Email: "alex@example.com",
			Department: "Finance", Position: "Accountant", Status: EmployeeStatusActive,
			UserID: 1, CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
	{
		Name:      "purchaseOrder",
		Noun:      "Purchase Order",
		Namespace: "purchaseOrders",
		Event:     "purchaseOrder",
		SearchFields: []Field{
			{Key: "id", Label: "Purchase Order ID", Type: FieldInteger},
			{Key: "poNumber", Label: "PO Number", Type: FieldString},
		},
		CreateFields: []Field{
			{Key: "poNumber", Label: "PO Number", Type: FieldString},
			{Key: "vendorName", Label: "Vendor Name", Type: FieldString},
			{Key: "totalAmount", Label: "Total Amount", Type: FieldMoney, HelpText: "Amount in cents"},
			{Key: "orderDate", Label: "Order Date", Type: FieldDateTime},
		},
		UpdateFields: []Field{
			idField("Purchase Order"),
			{Key: "status", Label: "Status", Type: FieldString, Choices: PurchaseOrderStatuses},
			{Key: "vendorName", Label: "Vendor Name", Type: FieldString},
			{Key: "totalAmount", Label: "Total Amount", Type: FieldMoney, HelpText: "Amount in cents"},
		},
		OutputFields: outputs("Purchase Order",
			Field{Key: "poNumber", Label: "PO Number", Type: FieldString},
			Field{Key: "vendorName", Label: "Vendor Name", Type: FieldString},
			Field{Key: "status", Label: "Status", Type: FieldString},
			Field{Key: "totalAmount", Label: "Total Amount", Type: FieldMoney},
			Field{Key: "orderDate", Label: "Order Date", Type: FieldDateTime},
		),
		Sample: PurchaseOrder{
			ID: 1, PONumber: "PO-2024-001", VendorName: "Office Supplies Inc",
			Status: PurchaseOrderStatusDraft, TotalAmount: int64Ptr(250000), UserID: 1,
			CreatedAt: sampleTime, UpdatedAt: sampleTime,
		},
	},
}

func int64Ptr(v int64) *int64 { return &v }

// Resources returns the resource table in declaration order
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// LookupResource finds a resource by its camelCase name
func LookupResource(name string) (Resource, bool) {
	for _, r := range resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
