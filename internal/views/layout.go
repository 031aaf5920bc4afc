package views

import (
	"time"

	"github.com/a-h/templ"

	"college/internal/models"
)

// FlashMessages holds the one-shot notices shown at the top of a page.
type FlashMessages struct {
	Success []string
	Error   []string
	Info    []string
}

// PageData is shared by every rendered page.
type PageData struct {
	Title     string
	Settings  map[string]string
	User      *models.Admin
	CSRFToken string
	Flash     FlashMessages
	ActiveNav string
}

// Setting returns a site setting or an empty string.
func (d PageData) Setting(key string) string {
	return d.Settings[key]
}

// SiteName returns the configured site name.
func (d PageData) SiteName() string {
	if name := d.Setting(models.SettingSiteName); name != "" {
		return name
	}
	return "College"
}

type navItem struct {
	page  models.Page
	href  string
	label string
}

var publicNav = []navItem{
	{models.PageHome, "/", "Home"},
	{models.PageAbout, "/about", "About"},
	{models.PageCourses, "/courses", "Courses"},
	{models.PageFaculty, "/faculty", "Faculty"},
	{models.PageLibrary, "/library", "Library"},
	{models.PageResults, "/results", "Results"},
	{models.PageGallery, "/gallery", "Gallery"},
	{models.PageNotices, "/notices", "Notices"},
	{models.PageContact, "/contact", "Contact"},
}

var adminNav = []struct{ key, href, label string }{
	{"dashboard", "/admin/dashboard", "Dashboard"},
	{"books", "/admin/books", "Books"},
	{"results", "/admin/results", "Results"},
	{"notices", "/admin/notices", "Notices"},
	{"faculty", "/admin/faculty", "Faculty"},
	{"courses", "/admin/courses", "Courses"},
	{"gallery", "/admin/gallery", "Gallery"},
	{"messages", "/admin/messages", "Messages"},
	{"analytics", "/admin/analytics", "Analytics"},
}

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2933;background:#f7f7f2}
header{background:#1d3557;color:#fff;padding:1rem 2rem}header a{color:#fff}
nav a{margin-right:1rem;text-decoration:none}nav a.active{font-weight:700;text-decoration:underline}
main{max-width:72rem;margin:0 auto;padding:1.5rem 2rem}
.flash{padding:.75rem 1rem;margin-bottom:1rem;border-radius:4px}.flash-success{background:#d8f3dc}
.flash-error{background:#ffd6d6}.flash-info{background:#dbe9ff}
table{width:100%;border-collapse:collapse;background:#fff}th,td{padding:.5rem;border-bottom:1px solid #ddd;text-align:left}
.card{background:#fff;padding:1rem;margin-bottom:1rem;border-radius:6px;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(14rem,1fr));gap:1rem}
.grid img{width:100%;height:10rem;object-fit:cover}.inline{display:inline}
.muted{color:#6b7280}.badge{background:#e63946;color:#fff;padding:0 .4rem;border-radius:3px;font-size:.8rem}
.inactive{opacity:.5}form.stacked label{display:block;margin-top:.5rem}
form.stacked input,form.stacked textarea,form.stacked select{width:100%;padding:.4rem}
footer{text-align:center;padding:2rem;color:#6b7280}`

// Layout wraps body in the public page chrome.
func Layout(data PageData, body templ.Component) templ.Component {
	return component(func(p *page) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw("<title>")
		if data.Title != "" {
			p.text(data.Title + " | ")
		}
		p.text(data.SiteName())
		p.raw("</title><style>" + stylesheet + "</style></head><body>")

		p.raw("<header><h1>")
		p.link("/", data.SiteName(), "")
		p.raw("</h1>")
		if tagline := data.Setting(models.SettingTagline); tagline != "" {
			p.raw(`<p class="tagline">`)
			p.text(tagline)
			p.raw("</p>")
		}

		p.raw("<nav>")
		if data.User != nil {
			for _, item := range adminNav {
				p.link(item.href, item.label, activeClass(data.ActiveNav == item.key))
			}
			if data.User.Role.CanAdmin() {
				p.link("/admin/users", "Users", activeClass(data.ActiveNav == "users"))
				p.link("/admin/settings", "Settings", activeClass(data.ActiveNav == "settings"))
			}
			p.postButton("/admin/logout", data.CSRFToken, "Logout ("+data.User.Username+")", "link")
		} else {
			for _, item := range publicNav {
				p.link(item.href, item.label, activeClass(data.ActiveNav == string(item.page)))
			}
		}
		p.raw("</nav></header><main>")

		flashes(p, "success", data.Flash.Success)
		flashes(p, "error", data.Flash.Error)
		flashes(p, "info", data.Flash.Info)

		p.render(body)

		p.raw("</main><footer>")
		p.text(data.SiteName())
		if addr := data.Setting(models.SettingAddress); addr != "" {
			p.text(" · " + addr)
		}
		if phone := data.Setting(models.SettingPhone); phone != "" {
			p.text(" · " + phone)
		}
		if email := data.Setting(models.SettingEmail); email != "" {
			p.text(" · " + email)
		}
		p.raw("<br>&copy; ")
		p.int(int64(time.Now().Year()))
		p.raw("</footer></body></html>")
	})
}

func activeClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}

func flashes(p *page, kind string, messages []string) {
	for _, msg := range messages {
		p.raw(`<div class="flash flash-` + kind + `" role="alert">`)
		p.text(msg)
		p.raw("</div>")
	}
}
