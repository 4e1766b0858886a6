package automation

import (
	"slices"
	"time"
)

// ---------------------------------------------------------------------------
// Task
// ---------------------------------------------------------------------------

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every valid task status
var TaskStatuses = []string{
	string(TaskStatusTodo), string(TaskStatusInProgress),
	string(TaskStatusCompleted), string(TaskStatusCancelled),
}

// IsValid returns true if the status is valid
func (s TaskStatus) IsValid() bool {
	return slices.Contains(TaskStatuses, string(s))
}

// Priority is shared by tasks and tickets
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every valid priority
var Priorities = []string{
	string(PriorityLow), string(PriorityMedium),
	string(PriorityHigh), string(PriorityUrgent),
}

// IsValid returns true if the priority is valid
func (p Priority) IsValid() bool {
	return slices.Contains(Priorities, string(p))
}

// Task is a unit of work owned by a single user
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Transaction
// ---------------------------------------------------------------------------

// TransactionType represents the direction of money movement
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionTypes lists every valid transaction type
var TransactionTypes = []string{
	string(TransactionTypeIncome), string(TransactionTypeExpense), string(TransactionTypeTransfer),
}

// IsValid returns true if the type is valid
func (t TransactionType) IsValid() bool {
	return slices.Contains(TransactionTypes, string(t))
}

// Transaction is a financial movement. Amount is in minor currency units.
type Transaction struct {
	ID              int64           `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          int64           `json:"amount"`
	Category        string          `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	Flagged         bool            `json:"flagged"`
	TransactionDate time.Time       `json:"transactionDate"`
	UserID          int64           `json:"userId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Ticket
// ---------------------------------------------------------------------------

// TicketStatus represents the lifecycle state of a support ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every valid ticket status
var TicketStatuses = []string{
	string(TicketStatusOpen), string(TicketStatusInProgress), string(TicketStatusWaiting),
	string(TicketStatusResolved), string(TicketStatusClosed),
}

// IsValid returns true if the status is valid
func (s TicketStatus) IsValid() bool {
	return slices.Contains(TicketStatuses, string(s))
}

// Ticket is a support request
type Ticket struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    Priority     `json:"priority"`
	AssignedTo  *int64       `json:"assignedTo,omitempty"`
	UserID      int64        `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Lead
// ---------------------------------------------------------------------------

// LeadStatus represents the sales qualification state of a lead
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusUnqualified LeadStatus = "unqualified"
	LeadStatusConverted   LeadStatus = "converted"
)

// LeadStatuses lists every valid lead status
var LeadStatuses = []string{
	string(LeadStatusNew), string(LeadStatusContacted), string(LeadStatusQualified),
	string(LeadStatusUnqualified), string(LeadStatusConverted),
}

// IsValid returns true if the status is valid
func (s LeadStatus) IsValid() bool {
	return slices.Contains(LeadStatuses, string(s))
}

// Lead is a prospective customer
type Lead struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Company   string     `json:"company,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Status    LeadStatus `json:"status"`
	Score     int        `json:"score"`
	Source    string     `json:"source,omitempty"`
	UserID    int64      `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Contact
// ---------------------------------------------------------------------------

// Contact is an address book entry
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Position  string    `json:"position,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Employee
// ---------------------------------------------------------------------------

// EmployeeStatus represents the employment state
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// EmployeeStatuses lists every valid employee status
var EmployeeStatuses = []string{
	string(EmployeeStatusActive), string(EmployeeStatusOnLeave), string(EmployeeStatusTerminated),
}

// IsValid returns true if the status is valid
func (s EmployeeStatus) IsValid() bool {
	return slices.Contains(EmployeeStatuses, string(s))
}

// Employee is a member of staff. EmployeeID is unique per account.
type Employee struct {
	ID         int64          `json:"id"`
	EmployeeID string         `json:"employeeId"`
	Name       string         `json:"name"`
	Email      string         `json:"email,omitempty"`
	Department string         `json:"department,omitempty"`
	Position   string         `json:"position,omitempty"`
	HireDate   *time.Time     `json:"hireDate,omitempty"`
	Status     EmployeeStatus `json:"status"`
	UserID     int64          `json:"userId"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// PurchaseOrder
// ---------------------------------------------------------------------------

// PurchaseOrderStatus represents the approval state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrderStatuses lists every valid purchase order status
var PurchaseOrderStatuses = []string{
	string(PurchaseOrderStatusDraft), string(PurchaseOrderStatusPending), string(PurchaseOrderStatusApproved),
	string(PurchaseOrderStatusReceived), string(PurchaseOrderStatusCancelled),
}

// IsValid returns true if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	return slices.Contains(PurchaseOrderStatuses, string(s))
}

// PurchaseOrder is an order placed with a vendor. PONumber is unique per account
// and TotalAmount is in minor currency units.
type PurchaseOrder struct {
	ID          int64               `json:"id"`
	PONumber    string              `json:"poNumber"`
	VendorName  string              `json:"vendorName,omitempty"`
	Status      PurchaseOrderStatus `json:"status"`
	TotalAmount *int64              `json:"totalAmount,omitempty"`
	OrderDate   *time.Time          `json:"orderDate,omitempty"`
	UserID      int64               `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// WebhookSubscription
// ---------------------------------------------------------------------------

// WebhookSubscription is a delivery target registered at the backend.
// It is created on subscribe and deleted on unsubscribe.
type WebhookSubscription struct {
	ID        int64     `json:"id"`
	TargetURL string    `json:"targetUrl"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
}
