package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	PaidBy    string          `json:"paid_by"`
	PayerName string          `json:"payer_name,omitempty"`
	SplitType string          `json:"split_type"`
	Excluded  []string        `json:"excluded"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Currency       string                `json:"currency"`
	CurrencySymbol string                `json:"currency_symbol"`
	Total          decimal.Decimal       `json:"total"`
	Participants   []ParticipantResponse `json:"participants"`
	Expenses       []ExpenseResponse     `json:"expenses"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ListTripsResponse represents a list of trips.
type ListTripsResponse struct {
	Trips []*TripResponse `json:"trips"`
	Total int             `json:"total"`
}

// WarningResponse represents a dangling reference found while computing balances.
type WarningResponse struct {
	Kind      string `json:"kind"`
	ExpenseID string `json:"expense_id"`
	Reference string `json:"reference"`
}

// BalanceResponse represents one participant's position.
type BalanceResponse struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	ShouldPay     decimal.Decimal `json:"should_pay"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalancesResponse represents the balance sheet of a trip.
type BalancesResponse struct {
	TripID   string            `json:"trip_id"`
	Currency string            `json:"currency"`
	Balances []BalanceResponse `json:"balances"`
	Warnings []WarningResponse `json:"warnings"`
}

// SettlementResponse represents one suggested payment.
type SettlementResponse struct {
	FromID   string          `json:"from_id"`
	FromName string          `json:"from_name"`
	ToID     string          `json:"to_id"`
	ToName   string          `json:"to_name"`
	Amount   decimal.Decimal `json:"amount"`
}

// SettlementsResponse represents the settlement plan of a trip.
type SettlementsResponse struct {
	TripID      string               `json:"trip_id"`
	Currency    string               `json:"currency"`
	Settlements []SettlementResponse `json:"settlements"`
	Warnings    []WarningResponse    `json:"warnings"`
}

// ConsistencyResponse represents the result of a consistency check.
type ConsistencyResponse struct {
	TripID     string            `json:"trip_id"`
	Sum        decimal.Decimal   `json:"sum"`
	Bound      decimal.Decimal   `json:"bound"`
	Consistent bool              `json:"consistent"`
	Warnings   []WarningResponse `json:"warnings"`
}

// ReportResponse represents a full trip report.
type ReportResponse struct {
	TripID           string               `json:"trip_id"`
	TripName         string               `json:"trip_name"`
	Currency         string               `json:"currency"`
	CurrencySymbol   string               `json:"currency_symbol"`
	TotalSpent       decimal.Decimal      `json:"total_spent"`
	ExpenseCount     int                  `json:"expense_count"`
	ParticipantCount int                  `json:"participant_count"`
	AveragePerPerson decimal.Decimal      `json:"average_per_person"`
	Expenses         []ExpenseResponse    `json:"expenses"`
	Balances         []BalanceResponse    `json:"balances"`
	TotalPaid        decimal.Decimal      `json:"total_paid"`
	TotalShouldPay   decimal.Decimal      `json:"total_should_pay"`
	Settlements      []SettlementResponse `json:"settlements"`
	Warnings         []WarningResponse    `json:"warnings"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// CurrencyResponse represents a supported currency.
type CurrencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// TripFromDomain converts a domain trip to response.
func TripFromDomain(t *domain.Trip) *TripResponse {
	resp := &TripResponse{
		ID:             t.ID,
		Name:           t.Name,
		Currency:       t.Currency,
		CurrencySymbol: domain.CurrencySymbol(t.Currency),
		Total:          t.Total().Decimal(t.Currency),
		Participants:   ParticipantsFromDomain(t.Participants),
		Expenses:       ExpensesFromDomain(t.Expenses, t.Currency),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	return resp
}

// TripsFromDomain converts domain trips to responses.
func TripsFromDomain(trips []*domain.Trip) []*TripResponse {
	result := make([]*TripResponse, len(trips))
	for i, t := range trips {
		result[i] = TripFromDomain(t)
	}
	return result
}

// ParticipantsFromDomain converts domain participants to responses.
func ParticipantsFromDomain(participants []domain.Participant) []ParticipantResponse {
	result := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		result[i] = ParticipantResponse{ID: p.ID, Name: p.Name}
	}
	return result
}

// ExpenseFromDomain converts a domain expense to response.
func ExpenseFromDomain(e domain.Expense, currency string) ExpenseResponse {
	excluded := e.Excluded
	if excluded == nil {
		excluded = []string{}
	}
	return ExpenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount.Decimal(currency),
		PaidBy:    e.PaidBy,
		SplitType: string(domain.ParseSplitType(string(e.SplitType))),
		Excluded:  excluded,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []domain.Expense, currency string) []ExpenseResponse {
	result := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e, currency)
	}
	return result
}

// WarningsFromDomain converts integrity warnings to responses.
func WarningsFromDomain(warnings []domain.IntegrityWarning) []WarningResponse {
	result := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		result[i] = WarningResponse{Kind: w.Kind, ExpenseID: w.ExpenseID, Reference: w.Reference}
	}
	return result
}

// BalancesFromDomain converts balances to responses, keeping their order.
func BalancesFromDomain(balances []domain.Balance, currency string) []BalanceResponse {
	result := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceResponse{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     b.TotalPaid.Decimal(currency),
			ShouldPay:     b.ShouldPay.Decimal(currency),
			Balance:       b.Balance.Decimal(currency),
		}
	}
	return result
}

// SettlementsFromDomain converts settlements to responses.
func SettlementsFromDomain(settlements []domain.Settlement, currency string) []SettlementResponse {
	result := make([]SettlementResponse, len(settlements))
	for i, s := range settlements {
		result[i] = SettlementResponse{
			FromID:   s.FromID,
			FromName: s.FromName,
			ToID:     s.ToID,
			ToName:   s.ToName,
			Amount:   s.Amount.Decimal(currency),
		}
	}
	return result
}

// BalanceSheetFromUseCase converts a balance sheet to response.
func BalanceSheetFromUseCase(s *usecase.BalanceSheet) *BalancesResponse {
	return &BalancesResponse{
		TripID:   s.TripID,
		Currency: s.Currency,
		Balances: BalancesFromDomain(s.Balances, s.Currency),
		Warnings: WarningsFromDomain(s.Warnings),
	}
}

// SettlementPlanFromUseCase converts a settlement plan to response.
func SettlementPlanFromUseCase(p *usecase.SettlementPlan) *SettlementsResponse {
	return &SettlementsResponse{
		TripID:      p.TripID,
		Currency:    p.Currency,
		Settlements: SettlementsFromDomain(p.Settlements, p.Currency),
		Warnings:    WarningsFromDomain(p.Warnings),
	}
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport, currency string) *ConsistencyResponse {
	return &ConsistencyResponse{
		TripID:     r.TripID,
		Sum:        r.Sum.Decimal(currency),
		Bound:      r.Bound.Decimal(currency),
		Consistent: r.Consistent,
		Warnings:   WarningsFromDomain(r.Warnings),
	}
}

// ReportFromUseCase converts a trip report to response.
func ReportFromUseCase(r *usecase.TripReport) *ReportResponse {
	expenses := make([]ExpenseResponse, len(r.Expenses))
	for i, e := range r.Expenses {
		expenses[i] = ExpenseFromDomain(e.Expense, r.Currency)
		expenses[i].PayerName = e.PayerName
	}

	return &ReportResponse{
		TripID:           r.TripID,
		TripName:         r.TripName,
		Currency:         r.Currency,
		CurrencySymbol:   domain.CurrencySymbol(r.Currency),
		TotalSpent:       r.TotalSpent.Decimal(r.Currency),
		ExpenseCount:     r.ExpenseCount,
		ParticipantCount: r.ParticipantCount,
		AveragePerPerson: r.AveragePerPerson.Decimal(r.Currency),
		Expenses:         expenses,
		Balances:         BalancesFromDomain(r.Balances, r.Currency),
		TotalPaid:        r.TotalPaid.Decimal(r.Currency),
		TotalShouldPay:   r.TotalShouldPay.Decimal(r.Currency),
		Settlements:      SettlementsFromDomain(r.Settlements, r.Currency),
		Warnings:         WarningsFromDomain(r.Warnings),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		GeneratedAt:      r.GeneratedAt,
	}
}

// CurrenciesFromDomain converts supported currencies to responses.
func CurrenciesFromDomain(currencies []domain.Currency) []CurrencyResponse {
	result := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyResponse{Code: c.Code, Symbol: c.Symbol}
	}
	return result
}
