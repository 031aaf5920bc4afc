package models

import "time"

// Page identifies a public route for visit tracking.
type Page string

const (
	PageHome    Page = "home"
	PageAbout   Page = "about"
	PageCourses Page = "courses"
	PageFaculty Page = "faculty"
	PageLibrary Page = "library"
	PageResults Page = "results"
	PageGallery Page = "gallery"
	PageNotices Page = "notices"
	PageContact Page = "contact"
)

// Pages lists every trackable page in navigation order.
var Pages = []Page{
	PageHome, PageAbout, PageCourses, PageFaculty, PageLibrary,
	PageResults, PageGallery, PageNotices, PageContact,
}

// IsValid reports whether p is one of the known pages.
func (p Page) IsValid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// VisitEvent records the first visit of an IP to a page on a calendar day.
// Rows are written once and never updated.
type VisitEvent struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	IP        string    `gorm:"column:ip;size:64;not null;index:idx_visit_dedup,priority:1" json:"ip"`
	Page      Page      `gorm:"size:32;not null;index:idx_visit_dedup,priority:2;index" json:"page"`
	UserAgent string    `gorm:"size:256" json:"user_agent"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	DateKey   string    `gorm:"size:10;not null;index:idx_visit_dedup,priority:3;index" json:"date_key"`
}

// TableName returns the database table name.
func (VisitEvent) TableName() string {
	return "visit_events"
}

// DailyCount is one day of the visitor series.
type DailyCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// PageCount is the number of visits recorded for one page.
type PageCount struct {
	Page  Page  `json:"page"`
	Count int64 `json:"count"`
}

// VisitorSummary bundles the rollups shown on the analytics page.
type VisitorSummary struct {
	Today         int64        `json:"today"`
	Yesterday     int64        `json:"yesterday"`
	ThisWeek      int64        `json:"this_week"`
	ThisMonth     int64        `json:"this_month"`
	Total         int64        `json:"total"`
	UniqueToday   int64        `json:"unique_today"`
	UniqueAllTime int64        `json:"unique_all_time"`
	Daily         []DailyCount `json:"daily"`
	ByPage        []PageCount  `json:"by_page"`
}
