package views

import (
	"net/url"

	"github.com/a-h/templ"

	"college/internal/models"
	"college/internal/services"
)

// NoticeView pairs a notice with its rendered body.
type NoticeView struct {
	models.Notice
	HTML    string
	Excerpt string
}

// HomeData is the landing page data.
type HomeData struct {
	PageData
	Notices []NoticeView
	Courses []models.Course
	Gallery []models.GalleryImage
}

// Home renders the landing page.
func Home(data HomeData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<section class="card"><h2>Welcome to `)
		p.text(data.SiteName())
		p.raw("</h2>")
		if tagline := data.Setting(models.SettingTagline); tagline != "" {
			p.raw(`<p class="muted">`)
			p.text(tagline)
			p.raw("</p>")
		}
		p.raw("</section>")

		p.raw("<section><h2>Latest notices</h2>")
		if len(data.Notices) == 0 {
			p.raw(`<p class="muted">No notices yet.</p>`)
		}
		for _, n := range data.Notices {
			p.raw(`<div class="card"><h3>`)
			p.text(n.Title)
			if n.IsImportant {
				p.raw(` <span class="badge">Important</span>`)
			}
			p.raw(`</h3><p>`)
			p.text(n.Excerpt)
			p.raw(`</p><p class="muted">`)
			p.text(n.PostDate.Format("02 Jan 2006"))
			p.raw("</p></div>")
		}
		p.link("/notices", "All notices", "")
		p.raw("</section>")

		p.raw("<section><h2>Courses offered</h2><div class=\"grid\">")
		for _, c := range data.Courses {
			courseCard(p, c)
		}
		p.raw("</div></section>")

		if len(data.Gallery) > 0 {
			p.raw(`<section><h2>Campus gallery</h2><div class="grid">`)
			for _, img := range data.Gallery {
				galleryTile(p, img)
			}
			p.raw("</div>")
			p.link("/gallery", "View gallery", "")
			p.raw("</section>")
		}
	}))
}

// About renders the static about page.
func About(data PageData) templ.Component {
	return Layout(data, component(func(p *page) {
		p.raw(`<section class="card"><h2>About `)
		p.text(data.SiteName())
		p.raw("</h2><p>")
		p.text(data.SiteName())
		p.text(" is a degree college offering undergraduate programmes in Arts, Science and Commerce.")
		p.raw("</p>")
		if addr := data.Setting(models.SettingAddress); addr != "" {
			p.raw("<p><strong>Address:</strong> ")
			p.text(addr)
			p.raw("</p>")
		}
		p.raw("</section>")
	}))
}

// CoursesData is the course listing data.
type CoursesData struct {
	PageData
	Courses []models.Course
}

// Courses renders the course listing.
func Courses(data CoursesData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<h2>Courses</h2><div class="grid">`)
		for _, c := range data.Courses {
			courseCard(p, c)
		}
		p.raw("</div>")
		if len(data.Courses) == 0 {
			p.raw(`<p class="muted">No courses listed.</p>`)
		}
	}))
}

func courseCard(p *page, c models.Course) {
	p.raw(`<div class="card"><h3>`)
	p.text(c.Name)
	p.raw("</h3>")
	if c.Code != "" || c.Duration != "" {
		p.raw(`<p class="muted">`)
		p.text(c.Code)
		if c.Duration != "" {
			p.text(" · " + c.Duration)
		}
		p.raw("</p>")
	}
	p.raw("<p>")
	p.text(c.Description)
	p.raw("</p>")
	if c.Eligibility != "" {
		p.raw("<p><strong>Eligibility:</strong> ")
		p.text(c.Eligibility)
		p.raw("</p>")
	}
	if c.Seats > 0 {
		p.raw("<p><strong>Seats:</strong> ")
		p.int(int64(c.Seats))
		p.raw("</p>")
	}
	p.raw("</div>")
}

// FacultyData is the faculty listing data.
type FacultyData struct {
	PageData
	Faculty     []models.Faculty
	Departments []string
}

// Faculty renders the faculty listing grouped by department.
func Faculty(data FacultyData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Faculty</h2>")
		if len(data.Faculty) == 0 {
			p.raw(`<p class="muted">No faculty profiles yet.</p>`)
			return
		}

		byDept := make(map[string][]models.Faculty)
		for _, f := range data.Faculty {
			byDept[f.Department] = append(byDept[f.Department], f)
		}
		groups := append([]string{}, data.Departments...)
		if len(byDept[""]) > 0 {
			groups = append(groups, "")
		}

		for _, dept := range groups {
			p.raw("<section><h3>")
			if dept == "" {
				p.text("Other staff")
			} else {
				p.text(dept)
			}
			p.raw(`</h3><div class="grid">`)
			for _, f := range byDept[dept] {
				p.raw(`<div class="card">`)
				if f.PhotoURL != "" {
					p.raw("<img")
					p.src(f.PhotoURL)
					p.attr("alt", f.Name)
					p.raw(">")
				}
				p.raw("<h4>")
				p.text(f.Name)
				p.raw(`</h4><p class="muted">`)
				p.text(f.Designation)
				p.raw("</p><p>")
				p.text(f.Qualification)
				p.raw("</p>")
				if f.Specialization != "" {
					p.raw("<p>")
					p.text(f.Specialization)
					p.raw("</p>")
				}
				if f.Email != "" {
					p.link("mailto:"+f.Email, f.Email, "")
				}
				p.raw("</div>")
			}
			p.raw("</div></section>")
		}
	}))
}

// BookView pairs a book with its derived drive links.
type BookView struct {
	models.Book
	Links services.DocumentLinks
}

// LibraryData is the library catalogue data.
type LibraryData struct {
	PageData
	Books    []BookView
	Subjects []string
	Courses  []string
	Filter   models.BookFilter
}

// Library renders the searchable book catalogue.
func Library(data LibraryData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<h2>Digital library</h2><form method="get" action="/library" class="card">`)
		p.raw(`<input type="search" name="search" placeholder="Title, author or subject"`)
		p.attr("value", data.Filter.Search)
		p.raw(">")
		selectFilter(p, "subject", "All subjects", data.Subjects, data.Filter.Subject)
		selectFilter(p, "course", "All courses", data.Courses, data.Filter.Course)
		p.raw(`<input type="text" name="semester" placeholder="Semester"`)
		p.attr("value", data.Filter.Semester)
		p.raw(`> <button type="submit">Filter</button></form>`)

		if len(data.Books) == 0 {
			p.raw(`<p class="muted">No books found.</p>`)
			return
		}

		p.raw("<table><thead><tr><th>Title</th><th>Author</th><th>Subject</th><th>Course</th><th>Semester</th><th></th></tr></thead><tbody>")
		for _, b := range data.Books {
			p.raw("<tr><td>")
			p.text(b.Title)
			p.raw("</td><td>")
			p.text(b.Author)
			p.raw("</td><td>")
			p.text(b.Subject)
			p.raw("</td><td>")
			p.text(b.Course)
			p.raw("</td><td>")
			p.text(b.Semester)
			p.raw("</td><td>")
			p.link(b.Links.Preview, "Read", "")
			p.raw(" · ")
			p.link(b.Links.Download, "Download", "")
			p.raw("</td></tr>")
		}
		p.raw("</tbody></table>")
	}))
}

func selectFilter(p *page, name, placeholder string, options []string, selected string) {
	p.raw("<select")
	p.attr("name", name)
	p.raw(`><option value="">`)
	p.text(placeholder)
	p.raw("</option>")
	for _, opt := range options {
		p.raw("<option")
		p.attr("value", opt)
		if opt == selected {
			p.raw(" selected")
		}
		p.raw(">")
		p.text(opt)
		p.raw("</option>")
	}
	p.raw("</select>")
}

// ResultView pairs a result with its derived drive links.
type ResultView struct {
	models.Result
	Links services.DocumentLinks
}

// ResultsData is the results listing data.
type ResultsData struct {
	PageData
	Results []ResultView
}

// Results renders the published results.
func Results(data ResultsData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Results</h2>")
		if len(data.Results) == 0 {
			p.raw(`<p class="muted">No results published.</p>`)
			return
		}
		p.raw("<table><thead><tr><th>Title</th><th>Exam</th><th>Course</th><th>Semester</th><th>Year</th><th></th></tr></thead><tbody>")
		for _, r := range data.Results {
			p.raw("<tr><td>")
			p.text(r.Title)
			p.raw("</td><td>")
			p.text(r.ExamType)
			p.raw("</td><td>")
			p.text(r.Course)
			p.raw("</td><td>")
			p.text(r.Semester)
			p.raw("</td><td>")
			p.text(r.Year)
			p.raw("</td><td>")
			p.link(r.Links.View, "View", "")
			p.raw(" · ")
			p.link(r.Links.Download, "Download", "")
			p.raw("</td></tr>")
		}
		p.raw("</tbody></table>")
	}))
}

// GalleryData is the gallery page data.
type GalleryData struct {
	PageData
	Images     []models.GalleryImage
	Categories []string
	Selected   string
}

// Gallery renders the photo gallery with category tabs.
func Gallery(data GalleryData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Gallery</h2><p>")
		p.link("/gallery", "All", activeClass(data.Selected == ""))
		for _, cat := range data.Categories {
			p.raw(" ")
			p.link("/gallery?category="+url.QueryEscape(cat), cat, activeClass(data.Selected == cat))
		}
		p.raw(`</p><div class="grid">`)
		for _, img := range data.Images {
			galleryTile(p, img)
		}
		p.raw("</div>")
		if len(data.Images) == 0 {
			p.raw(`<p class="muted">No photos yet.</p>`)
		}
	}))
}

func galleryTile(p *page, img models.GalleryImage) {
	p.raw(`<figure class="card"><img loading="lazy"`)
	p.src(img.ImageURL)
	p.attr("alt", img.Title)
	p.raw("><figcaption>")
	p.text(img.Title)
	p.raw("</figcaption></figure>")
}

// NoticesData is the notice board data.
type NoticesData struct {
	PageData
	Notices []NoticeView
}

// Notices renders the notice board.
func Notices(data NoticesData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw("<h2>Notice board</h2>")
		if len(data.Notices) == 0 {
			p.raw(`<p class="muted">No notices.</p>`)
		}
		for _, n := range data.Notices {
			p.raw(`<article class="card"><h3>`)
			p.text(n.Title)
			if n.IsImportant {
				p.raw(` <span class="badge">Important</span>`)
			}
			p.raw(`</h3><p class="muted">`)
			p.text(n.Category + " · " + n.PostDate.Format("02 Jan 2006"))
			if n.PostedBy != "" {
				p.text(" · " + n.PostedBy)
			}
			p.raw("</p><div>")
			// HTML is sanitized by the markdown renderer.
			p.raw(n.HTML)
			p.raw("</div>")
			if n.AttachmentLink != "" {
				p.link(n.AttachmentLink, "Attachment", "")
			}
			p.raw("</article>")
		}
	}))
}

// ContactData is the contact page data.
type ContactData struct {
	PageData
	Form models.ContactCreate
}

// Contact renders the contact form.
func Contact(data ContactData) templ.Component {
	return Layout(data.PageData, component(func(p *page) {
		p.raw(`<h2>Contact us</h2><div class="card">`)
		for _, key := range []string{models.SettingAddress, models.SettingPhone, models.SettingEmail} {
			if v := data.Setting(key); v != "" {
				p.raw("<p>")
				p.text(v)
				p.raw("</p>")
			}
		}
		p.raw(`</div><form method="post" action="/contact" class="card stacked">`)
		p.csrfField(data.CSRFToken)
		inputField(p, "name", "Name", "text", data.Form.Name, true)
		inputField(p, "email", "Email", "email", data.Form.Email, true)
		inputField(p, "phone", "Phone", "tel", data.Form.Phone, false)
		inputField(p, "subject", "Subject", "text", data.Form.Subject, false)
		textareaField(p, "message", "Message", data.Form.Message, true)
		p.raw(`<button type="submit">Send message</button></form>`)
	}))
}

func inputField(p *page, name, label, kind, value string, required bool) {
	p.raw("<label")
	p.attr("for", name)
	p.raw(">")
	p.text(label)
	p.raw("</label><input")
	p.attr("id", name)
	p.attr("name", name)
	p.attr("type", kind)
	if kind != "password" {
		p.attr("value", value)
	}
	if required {
		p.raw(" required")
	}
	p.raw(">")
}

func textareaField(p *page, name, label, value string, required bool) {
	p.raw("<label")
	p.attr("for", name)
	p.raw(">")
	p.text(label)
	p.raw("</label><textarea rows=\"5\"")
	p.attr("id", name)
	p.attr("name", name)
	if required {
		p.raw(" required")
	}
	p.raw(">")
	p.text(value)
	p.raw("</textarea>")
}
