package domain

import (
	"strconv"
	"time"
)

// ActivityDayCount is one raw aggregation row: how many activities of one
// status were written on one day.
type ActivityDayCount struct {
	Day      time.Time `db:"day"`
	StatusID Status    `db:"status_id"`
	Count    int64     `db:"count"`
}

// DailyCaseStats is one calendar day in the monthly chart. The JSON keys
// Selesai and Baru are the contract the dashboard chart binds to.
type DailyCaseStats struct {
	Date     string `json:"date"`
	Complete int64  `json:"Selesai"`
	New      int64  `json:"Baru"`
}

// CaseDashboard carries the KPI tiles on the officer dashboard.
type CaseDashboard struct {
	CasesInMonth        int64 `json:"cases_in_month"`
	CasesToday          int64 `json:"cases_today"`
	CasesWaiting        int64 `json:"cases_waiting"`
	VerificationWaiting int64 `json:"verification_waiting"`
	Users               int64 `json:"users"`
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// IndonesianDate renders "2 Januari", the label format the chart expects.
func IndonesianDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1]
}
