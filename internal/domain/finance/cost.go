package finance

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownRole labels employees whose role could not be resolved
const UnknownRole = "Unknown"

// CostEmployee is the input row for one employee
type CostEmployee struct {
	UserID     uuid.UUID
	Name       string
	Role       string
	HourlyRate decimal.Decimal
}

// CostTask is a task completed within the analysed window
type CostTask struct {
	AssignedTo *uuid.UUID
	ClientID   *uuid.UUID
	ClientName string
	ActualTime *float64
}

// CostInput gathers what the cost analysis needs
type CostInput struct {
	Employees []CostEmployee
	// HoursWorked maps user ID to hours of completed attendance pairs
	HoursWorked map[uuid.UUID]float64
	Tasks       []CostTask
	DefaultRate decimal.Decimal
}

// EmployeeCost is one employee's line of the analysis
type EmployeeCost struct {
	UserID            uuid.UUID       `json:"user_id"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	HoursWorked       float64         `json:"hours_worked"`
	TaskHours         float64         `json:"task_hours"`
	ProductivityRatio float64         `json:"productivity_ratio"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	Cost              decimal.Decimal `json:"cost"`
}

// RoleCost aggregates employees sharing a role
type RoleCost struct {
	Role  string          `json:"role"`
	Count int             `json:"count"`
	Hours float64         `json:"hours"`
	Cost  decimal.Decimal `json:"cost"`
}

// ClientCost aggregates completed task hours billed against a client
type ClientCost struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Hours      float64         `json:"hours"`
	Cost       decimal.Decimal `json:"cost"`
	TaskCount  int             `json:"task_count"`
}

// CostTotals are the headline figures
type CostTotals struct {
	TotalEmployees    int             `json:"total_employees"`
	TotalHours        float64         `json:"total_hours"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalTaskHours    float64         `json:"total_task_hours"`
	ProductivityRatio float64         `json:"productivity_ratio"`
}

// CostAnalysis is the team cost report
type CostAnalysis struct {
	Summary          CostTotals     `json:"summary"`
	EmployeeData     []EmployeeCost `json:"employee_data"`
	RoleDistribution []RoleCost     `json:"role_distribution"`
	ClientCosts      []ClientCost   `json:"client_costs"`
}

// AnalyzeCost prices attendance hours at each employee's rate and attributes
// completed task hours to clients at the assignee's rate.
func AnalyzeCost(in CostInput) CostAnalysis {
	rates := make(map[uuid.UUID]decimal.Decimal, len(in.Employees))
	taskHours := make(map[uuid.UUID]float64)
	for _, t := range in.Tasks {
		if t.AssignedTo != nil && t.ActualTime != nil {
			taskHours[*t.AssignedTo] += *t.ActualTime
		}
	}

	out := CostAnalysis{
		EmployeeData:     make([]EmployeeCost, 0, len(in.Employees)),
		RoleDistribution: []RoleCost{},
		ClientCosts:      []ClientCost{},
	}
	roles := make(map[string]*RoleCost)
	roleOrder := []string{}
	totalCost := decimal.Zero

	for _, e := range in.Employees {
		rate := e.HourlyRate
		if !rate.IsPositive() {
			rate = in.DefaultRate
		}
		rates[e.UserID] = rate

		hours := in.HoursWorked[e.UserID]
		row := EmployeeCost{
			UserID:      e.UserID,
			Name:        e.Name,
			Role:        e.Role,
			HoursWorked: round2(hours),
			TaskHours:   round2(taskHours[e.UserID]),
			HourlyRate:  rate,
			Cost:        priceHours(hours, rate),
		}
		if row.Role == "" {
			row.Role = UnknownRole
		}
		if hours > 0 {
			row.ProductivityRatio = round2(taskHours[e.UserID] / hours)
		}
		out.EmployeeData = append(out.EmployeeData, row)

		rc, ok := roles[row.Role]
		if !ok {
			rc = &RoleCost{Role: row.Role}
			roles[row.Role] = rc
			roleOrder = append(roleOrder, row.Role)
		}
		rc.Count++
		rc.Hours += hours
		rc.Cost = rc.Cost.Add(row.Cost)

		out.Summary.TotalHours += hours
		out.Summary.TotalTaskHours += taskHours[e.UserID]
		totalCost = totalCost.Add(row.Cost)
	}

	sort.Strings(roleOrder)
	for _, name := range roleOrder {
		rc := roles[name]
		rc.Hours = round2(rc.Hours)
		out.RoleDistribution = append(out.RoleDistribution, *rc)
	}

	clients := make(map[uuid.UUID]*ClientCost)
	clientOrder := []uuid.UUID{}
	for _, t := range in.Tasks {
		if t.ClientID == nil || t.ActualTime == nil || *t.ActualTime <= 0 {
			continue
		}
		cc, ok := clients[*t.ClientID]
		if !ok {
			cc = &ClientCost{ClientID: *t.ClientID, ClientName: t.ClientName}
			clients[*t.ClientID] = cc
			clientOrder = append(clientOrder, *t.ClientID)
		}
		rate := in.DefaultRate
		if t.AssignedTo != nil {
			if r, ok := rates[*t.AssignedTo]; ok {
				rate = r
			}
		}
		cc.Hours += *t.ActualTime
		cc.Cost = cc.Cost.Add(priceHours(*t.ActualTime, rate))
		cc.TaskCount++
	}
	for _, id := range clientOrder {
		cc := clients[id]
		cc.Hours = round2(cc.Hours)
		out.ClientCosts = append(out.ClientCosts, *cc)
	}
	sort.SliceStable(out.ClientCosts, func(i, j int) bool {
		return out.ClientCosts[i].Cost.GreaterThan(out.ClientCosts[j].Cost)
	})

	out.Summary.TotalEmployees = len(in.Employees)
	out.Summary.TotalCost = totalCost
	if out.Summary.TotalHours > 0 {
		out.Summary.ProductivityRatio = round2(out.Summary.TotalTaskHours / out.Summary.TotalHours)
	}
	out.Summary.TotalHours = round2(out.Summary.TotalHours)
	out.Summary.TotalTaskHours = round2(out.Summary.TotalTaskHours)
	return out
}

func priceHours(hours float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(rate).Round(2)
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
