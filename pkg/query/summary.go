package query

import (
	"sort"

	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/shopspring/decimal"
)

// SummarizeExpenses aggregates expenses by category and month.
// Categories are ordered by total descending, then name; months ascending.
// Months without expenses are omitted.
func SummarizeExpenses(legislatorID string, year int, expenses []model.Expense) model.ExpenseSummary {
	summary := model.ExpenseSummary{
		LegislatorID: legislatorID,
		Year:         year,
		Total:        decimal.Zero,
		Count:        len(expenses),
		ByCategory:   []model.CategoryTotal{},
		ByMonth:      []model.MonthTotal{},
	}

	byCategory := make(map[string]*model.CategoryTotal)
	byMonth := make(map[int]decimal.Decimal)

	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &model.CategoryTotal{Category: e.Category, Total: decimal.Zero}
			byCategory[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++

		if e.Month >= 1 && e.Month <= 12 {
			byMonth[e.Month] = byMonth[e.Month].Add(e.Amount)
		}
	}

	for _, ct := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *ct)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	for month := 1; month <= 12; month++ {
		if total, ok := byMonth[month]; ok {
			summary.ByMonth = append(summary.ByMonth, model.MonthTotal{Month: month, Total: total})
		}
	}

	return summary
}
