package views

import (
	"strconv"

	"github.com/a-h/templ"

	"college/internal/database"
	"college/internal/models"
)

// LoginData is the admin sign-in page data.
type LoginData struct {
	PageData
	Error    string
	Next     string
	Username string
}

// Login renders the admin sign-in form.
func Login(data LoginData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<section class="card"><h2>Admin login</h2>`)
		if data.Error != "" {
			flashes(p, "error", []string{data.Error})
		}
		p.raw(`<form method="post" action="/admin/login" class="stacked">`)
		p.csrfField(data.CSRFToken)
		if data.Next != "" {
			p.raw(`<input type="hidden" name="next"`)
			p.attr("value", data.Next)
			p.raw(">")
		}
		inputField(p, "username", "Username", "text", data.Username, true)
		inputField(p, "password", "Password", "password", "", true)
		p.raw(`<button type="submit">Sign in</button></form></section>`)
	}))
}

// SetupData is the first-run page data.
type SetupData struct {
	PageData
	Error    string
	Username string
	Name     string
}

// Setup renders the first-run form that creates the initial admin account.
func Setup(data SetupData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<section class="card"><h2>Welcome</h2><p>Create the first administrator account.</p>`)
		if data.Error != "" {
			flashes(p, "error", []string{data.Error})
		}
		p.raw(`<form method="post" action="/setup" class="stacked">`)
		p.csrfField(data.CSRFToken)
		inputField(p, "name", "Full name", "text", data.Name, true)
		inputField(p, "username", "Username", "text", data.Username, true)
		inputField(p, "password", "Password", "password", "", true)
		inputField(p, "password_confirm", "Confirm password", "password", "", true)
		p.raw(`<button type="submit">Create account</button></form></section>`)
	}))
}

// DashboardData is the admin landing page data.
type DashboardData struct {
	PageData
	Stats          database.ContentStats
	VisitorsToday  int64
	VisitorsTotal  int64
	RecentMessages []models.ContactMessage
}

// Dashboard renders content counts and recent messages.
func Dashboard(data DashboardData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Dashboard</h2><div class=\"grid\">")
		statCard(p, "Books", data.Stats.Books, "/admin/books")
		statCard(p, "Results", data.Stats.Results, "/admin/results")
		statCard(p, "Notices", data.Stats.Notices, "/admin/notices")
		statCard(p, "Faculty", data.Stats.Faculty, "/admin/faculty")
		statCard(p, "Courses", data.Stats.Courses, "/admin/courses")
		statCard(p, "Gallery", data.Stats.Gallery, "/admin/gallery")
		statCard(p, "Unread messages", data.Stats.Messages, "/admin/messages")
		statCard(p, "Visitors today", data.VisitorsToday, "/admin/analytics")
		statCard(p, "Visits all time", data.VisitorsTotal, "/admin/analytics")
		p.raw("</div><h3>Recent messages</h3>")
		messageTable(p, data.CSRFToken, data.RecentMessages)
	}))
}

func statCard(p *page, label string, n int64, href string) {
	p.raw(`<div class="card"><p class="muted">`)
	p.text(label)
	p.raw("</p><h3>")
	p.int(n)
	p.raw("</h3>")
	p.link(href, "Manage", "")
	p.raw("</div>")
}

// FormField describes one input on a content form.
type FormField struct {
	Name     string
	Label    string
	Kind     string // text, url, email, number, textarea, checkbox
	Required bool
}

// ContentRow is one row of a management table.
type ContentRow struct {
	ID     int64
	Cells  []string
	Link   string
	Active bool
}

// ManageData drives the generic content management page.
type ManageData struct {
	PageData
	Section string
	Heading string
	Fields  []FormField
	Columns []string
	Rows    []ContentRow
}

// ManageContent renders an add form above a table of every record, active or not.
func ManageContent(data ManageData) templ.Component {
	base := "/admin/" + data.Section
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>")
		p.text(data.Heading)
		p.raw(`</h2><details class="card"><summary>Add new</summary><form method="post" class="stacked"`)
		p.attr("action", base+"/add")
		p.raw(">")
		p.csrfField(data.CSRFToken)
		for _, f := range data.Fields {
			switch f.Kind {
			case "textarea":
				textareaField(p, f.Name, f.Label, "", f.Required)
			case "checkbox":
				p.raw("<label><input type=\"checkbox\" value=\"true\"")
				p.attr("name", f.Name)
				p.raw("> ")
				p.text(f.Label)
				p.raw("</label>")
			default:
				inputField(p, f.Name, f.Label, f.Kind, "", f.Required)
			}
		}
		p.raw(`<button type="submit">Save</button></form></details>`)

		if len(data.Rows) == 0 {
			p.raw(`<p class="muted">Nothing here yet.</p>`)
			return
		}
		p.raw("<table><thead><tr>")
		for _, col := range data.Columns {
			p.raw("<th>")
			p.text(col)
			p.raw("</th>")
		}
		p.raw("<th>Status</th><th></th></tr></thead><tbody>")
		for _, row := range data.Rows {
			if row.Active {
				p.raw("<tr>")
			} else {
				p.raw(`<tr class="inactive">`)
			}
			for i, cell := range row.Cells {
				p.raw("<td>")
				if i == 0 && row.Link != "" {
					p.link(row.Link, cell, "")
				} else {
					p.text(cell)
				}
				p.raw("</td>")
			}
			p.raw("<td>")
			if row.Active {
				p.raw("Active</td><td>")
				p.postButton(base+"/"+strconv.FormatInt(row.ID, 10)+"/deactivate", data.CSRFToken, "Deactivate", "danger")
			} else {
				p.raw("Inactive</td><td>")
			}
			p.raw("</td></tr>")
		}
		p.raw("</tbody></table>")
	}))
}

// MessagesData is the contact inbox data.
type MessagesData struct {
	PageData
	Messages []models.ContactMessage
}

// Messages renders the contact inbox.
func Messages(data MessagesData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Messages</h2>")
		messageTable(p, data.CSRFToken, data.Messages)
	}))
}

func messageTable(p *page, csrf string, messages []models.ContactMessage) {
	if len(messages) == 0 {
		p.raw(`<p class="muted">No messages.</p>`)
		return
	}
	p.raw("<table><thead><tr><th>Date</th><th>From</th><th>Subject</th><th>Message</th><th></th></tr></thead><tbody>")
	for _, m := range messages {
		if m.IsRead {
			p.raw(`<tr class="inactive"><td>`)
		} else {
			p.raw("<tr><td>")
		}
		p.text(m.Date.Format("02 Jan 2006 15:04"))
		p.raw("</td><td>")
		p.text(m.Name)
		p.raw("<br>")
		p.link("mailto:"+m.Email, m.Email, "")
		if m.Phone != "" {
			p.raw("<br>")
			p.text(m.Phone)
		}
		p.raw("</td><td>")
		p.text(m.Subject)
		p.raw("</td><td>")
		p.text(m.Message)
		p.raw("</td><td>")
		if !m.IsRead {
			p.postButton("/admin/messages/"+strconv.FormatInt(m.ID, 10)+"/read", csrf, "Mark read", "")
		}
		p.raw("</td></tr>")
	}
	p.raw("</tbody></table>")
}

// UsersData is the account management page data.
type UsersData struct {
	PageData
	Admins []models.Admin
}

// Users renders the account list and the add-account form.
func Users(data UsersData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Accounts</h2><table><thead><tr><th>Username</th><th>Name</th><th>Role</th><th>Created</th><th></th></tr></thead><tbody>")
		for _, a := range data.Admins {
			p.raw("<tr><td>")
			p.text(a.Username)
			p.raw("</td><td>")
			p.text(a.Name)
			p.raw("</td><td>")
			p.text(string(a.Role))
			p.raw("</td><td>")
			p.text(a.CreatedAt.Format("02 Jan 2006"))
			p.raw("</td><td>")
			if data.User == nil || data.User.ID != a.ID {
				p.postButton("/admin/users/"+strconv.FormatInt(a.ID, 10)+"/delete", data.CSRFToken, "Delete", "danger")
			}
			p.raw("</td></tr>")
		}
		p.raw(`</tbody></table><section class="card"><h3>Add account</h3><form method="post" action="/admin/users/add" class="stacked">`)
		p.csrfField(data.CSRFToken)
		inputField(p, "username", "Username", "text", "", true)
		inputField(p, "name", "Full name", "text", "", true)
		inputField(p, "password", "Password", "password", "", true)
		p.raw(`<label for="role">Role</label><select id="role" name="role">`)
		p.raw(`<option value="teacher">Teacher</option><option value="admin">Admin</option></select>`)
		p.raw(`<button type="submit">Create</button></form></section>`)
	}))
}

var settingLabels = map[string]string{
	models.SettingSiteName: "Site name",
	models.SettingTagline:  "Tagline",
	models.SettingAddress:  "Address",
	models.SettingPhone:    "Phone",
	models.SettingEmail:    "Email",
}

// Settings renders the site settings form.
func Settings(data PageData) templ.Component {
	return Layout(data, component(func(p *page) {
		p.raw(`<h2>Site settings</h2><form method="post" action="/admin/settings" class="card stacked">`)
		p.csrfField(data.CSRFToken)
		for _, key := range models.EditableSettings {
			label := settingLabels[key]
			if label == "" {
				label = key
			}
			inputField(p, key, label, "text", data.Setting(key), false)
		}
		p.raw(`<button type="submit">Save settings</button></form>`)
	}))
}

// AnalyticsData is the visitor analytics page data.
type AnalyticsData struct {
	PageData
	Summary models.VisitorSummary
}

// Analytics renders visitor rollups, the daily series and per-page counts.
func Analytics(data AnalyticsData) templ.Component {
	s := data.Summary
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<h2>Visitor analytics</h2><div class="grid">`)
		statCard(p, "Today", s.Today, "#daily")
		statCard(p, "Yesterday", s.Yesterday, "#daily")
		statCard(p, "Last 7 days", s.ThisWeek, "#daily")
		statCard(p, "Last 30 days", s.ThisMonth, "#daily")
		statCard(p, "All time", s.Total, "#pages")
		statCard(p, "Unique today", s.UniqueToday, "#daily")
		statCard(p, "Unique all time", s.UniqueAllTime, "#pages")
		p.raw(`</div><h3 id="daily">Daily visits</h3><table><thead><tr><th>Day</th><th>Visits</th><th></th></tr></thead><tbody>`)

		var peak int64 = 1
		for _, d := range s.Daily {
			if d.Count > peak {
				peak = d.Count
			}
		}
		for _, d := range s.Daily {
			p.raw("<tr><td>")
			p.text(d.Label)
			p.raw("</td><td>")
			p.int(d.Count)
			p.raw(`</td><td><div style="background:#457b9d;height:.8rem;width:`)
			p.int(d.Count * 100 / peak)
			p.raw(`%"></div></td></tr>`)
		}
		p.raw(`</tbody></table><h3 id="pages">By page</h3><table><thead><tr><th>Page</th><th>Visits</th></tr></thead><tbody>`)
		for _, pc := range s.ByPage {
			p.raw("<tr><td>")
			p.text(string(pc.Page))
			p.raw("</td><td>")
			p.int(pc.Count)
			p.raw("</td></tr>")
		}
		p.raw("</tbody></table>")
	}))
}
