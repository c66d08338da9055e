package dispatch

import (
	"sort"
	"time"

	"delivery-dispatch-service/internal/domain"
)

// Aggregates for one calendar day of orders.
type ReportDay struct {
	Date       string  `json:"date"`
	Count      int     `json:"count"`
	Delivered  int     `json:"delivered"`
	TotalValue float64 `json:"totalValue"`
}

// Per-courier delivery volume inside the report window.
type CourierStat struct {
	CourierID   string `json:"courierId"`
	CourierName string `json:"courierName"`
	Count       int    `json:"count"`
}

// Read-only summary of orders within an optional time window.
type OrdersReport struct {
	Count         int                        `json:"count"`
	TotalValue    float64                    `json:"totalValue"`
	AverageValue  float64                    `json:"averageValue"`
	DeliveredRate float64                    `json:"deliveredRate"`
	ByStatus      map[domain.OrderStatus]int `json:"byStatus"`
	ByDay         []ReportDay                `json:"byDay"`
	CourierStats  []CourierStat              `json:"courierStats"`
}

// Report aggregates orders created within [from, to]; nil bounds are open.
func (d *Dispatcher) Report(from, to *time.Time) *OrdersReport {
	d.mu.Lock()
	defer d.mu.Unlock()

	report := &OrdersReport{ByStatus: make(map[domain.OrderStatus]int)}
	perDay := make(map[string]*ReportDay)
	perCourier := make(map[string]*CourierStat)

	for _, o := range d.orders {
		if from != nil && o.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && o.CreatedAt.After(*to) {
			continue
		}

		report.Count++
		report.TotalValue += o.DeliveryPrice
		report.ByStatus[o.Status]++

		key := o.CreatedAt.UTC().Format("2006-01-02")
		day, ok := perDay[key]
		if !ok {
			day = &ReportDay{Date: key}
			perDay[key] = day
		}
		day.Count++
		day.TotalValue += o.DeliveryPrice
		if o.Status == domain.OrderDelivered {
			day.Delivered++
		}

		if o.CourierID != "" {
			stat, ok := perCourier[o.CourierID]
			if !ok {
				stat = &CourierStat{CourierID: o.CourierID}
				if c := d.courierByIDLocked(o.CourierID); c != nil {
					stat.CourierName = c.Name
				}
				perCourier[o.CourierID] = stat
			}
			stat.Count++
		}
	}

	if report.Count > 0 {
		report.AverageValue = report.TotalValue / float64(report.Count)
		report.DeliveredRate = float64(report.ByStatus[domain.OrderDelivered]) / float64(report.Count)
	}

	for _, day := range perDay {
		report.ByDay = append(report.ByDay, *day)
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })

	for _, stat := range perCourier {
		report.CourierStats = append(report.CourierStats, *stat)
	}
	sort.Slice(report.CourierStats, func(i, j int) bool {
		a, b := report.CourierStats[i], report.CourierStats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.CourierID < b.CourierID
	})

	return report
}
