package main

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/internal/config"
	"github.com/jask/collectdash/listflow"
)

// ---------------------------------------------------------------------------
// Domain constants
// ---------------------------------------------------------------------------

const appName = "Collectdash"

// Tab indices
const (
	tabCustomers = 0
	tabInvoices  = 1
	tabPayments  = 2
	tabTickets   = 3
	tabSettings  = 4
	tabCount     = 5
)

var tabNames = [tabCount]string{"Customers", "Invoices", "Payments", "Tickets", "Settings"}

// How close the cursor gets to the end of the visible rows before the next
// page is requested.
const scrollThreshold = 5

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	UpDown   key.Binding
	Search   key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Export   key.Binding
	Color    key.Binding
	Note     key.Binding
	Notes    key.Binding
	Exclude  key.Binding
	Include  key.Binding
	Select   key.Binding
	Enter    key.Binding
	Close    key.Binding
	Jump     key.Binding
	SaveFlt  key.Binding
	Delete   key.Binding
	Priority key.Binding
	Assign   key.Binding
	Status   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		UpDown:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "navigate")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle flag")),
		Note:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add note")),
		Notes:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "view notes")),
		Exclude:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "exclude")),
		Include:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "include all")),
		Select:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Jump:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "jump to customer")),
		SaveFlt:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save filter")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		Assign:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assign")),
		Status:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "status")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.UpDown, k.Search, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextTab, k.UpDown, k.Search, k.Sort, k.Refresh, k.Export, k.Quit}}
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type customersPageMsg struct {
	fetch listflow.Fetch
	rows  []backend.Customer
	total int
	err   error
}

type invoicesPageMsg struct {
	fetch listflow.Fetch
	rows  []backend.Invoice
	total int
	err   error
}

type paymentsPageMsg struct {
	fetch listflow.Fetch
	rows  []backend.Payment
	total int
	err   error
}

type ticketsPageMsg struct {
	fetch listflow.Fetch
	rows  []backend.Ticket
	total int
	err   error
}

type exclusionsLoadedMsg struct {
	list []backend.ExcludedCustomer
	err  error
}

type savedFiltersLoadedMsg struct {
	list []savedFilter
	err  error
}

type analyticsMsg struct {
	analytics backend.CustomerAnalytics
	err       error
}

type activityMsg struct {
	summary backend.ActivitySummary
	err     error
}

type colorSavedMsg struct {
	customerID string
	color      backend.ColorStatus
	err        error
}

type batchColorMsg struct {
	refNbrs []string
	color   backend.ColorStatus
	err     error
}

type noteSavedMsg struct {
	err error
}

type notesLoadedMsg struct {
	notes []backend.Note
	err   error
}

type excludeDoneMsg struct {
	entry backend.ExcludedCustomer
	err   error
}

type includeDoneMsg struct {
	customerID string
	err        error
}

type includeAllDoneMsg struct {
	err error
}

type ticketSavedMsg struct {
	ticketID string
	field    string // "status", "priority" or "collector"
	status   string
	priority int
	assignee string
	err      error
}

type filterSavedMsg struct {
	saved savedFilter
	err   error
}

type filterDeletedMsg struct {
	filterID string
	err      error
}

type filterTouchedMsg struct {
	filterID string
	err      error
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

type pinnedCustomerMsg struct {
	customer backend.Customer
	err      error
}

type pinnedTicketMsg struct {
	ticket backend.Ticket
	err    error
}

// searchTickMsg fires after the debounce interval for free-text search; only
// the latest seq for a tab is honored.
type searchTickMsg struct {
	tab int
	seq int
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	ctx    context.Context
	cfg    config.Config
	be     backend.Client
	logger *log.Logger

	activeTab int
	width     int
	height    int

	status    string
	statusErr bool

	keys     keyMap
	spin     spinner.Model
	input    textinput.Model
	jump     *jumpPicker
	prompt   promptState
	filterEd *filterEditor
	notes    *notesOverlay

	exclusions *exclusionStore
	analytics  backend.CustomerAnalytics
	activity   backend.ActivitySummary

	customers *customersView
	invoices  *invoicesView
	payments  *paymentsView
	tickets   *ticketsView

	savedFilters []savedFilter
	settings     settingsView

	// deep-link targets from --customer / --ticket, cleared once applied
	deepCustomer string
	deepTicket   string
}

func newModel(ctx context.Context, cfg config.Config, be backend.Client, logger *log.Logger) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.CharLimit = 200

	return model{
		ctx:        ctx,
		cfg:        cfg,
		be:         be,
		logger:     logger,
		activeTab:  tabCustomers,
		keys:       newKeyMap(),
		spin:       sp,
		input:      ti,
		exclusions: newExclusionStore(),
		customers:  newCustomersView(cfg.Backend.PageSize),
		invoices:   newInvoicesView(cfg.Backend.PageSize),
		payments:   newPaymentsView(cfg.Backend.PageSize),
		tickets:    newTicketsView(cfg.Backend.PageSize),
	}
}

func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
	if m.logger != nil {
		m.logger.Print(msg)
	}
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

// Init kicks off the initial loads: shared state (exclusions, saved filters)
// plus the first page of every tab under default criteria. Deep-link targets
// resolve through a dedicated lookup so a bad ID fails loudly instead of
// silently showing an empty table.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		loadExclusionsCmd(m.ctx, m.be),
		loadSavedFiltersCmd(m.ctx, m.be),
		m.customers.firstPage(m.ctx, m.be),
		m.invoices.firstPage(m.ctx, m.be),
		m.payments.firstPage(m.ctx, m.be),
		m.tickets.firstPage(m.ctx, m.be),
		activityCmd(m.ctx, m.be, m.cfg.Backend.Collector),
	}
	if m.deepCustomer != "" {
		cmds = append(cmds, pinCustomerCmd(m.ctx, m.be, m.deepCustomer))
	}
	if m.deepTicket != "" {
		cmds = append(cmds, pinTicketCmd(m.ctx, m.be, m.deepTicket))
	}
	return tea.Batch(cmds...)
}
