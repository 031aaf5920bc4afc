package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college/internal/models"
	"college/internal/services"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout_PublicNavAndSettings(t *testing.T) {
	data := PageData{
		Title:     "Library",
		ActiveNav: string(models.PageLibrary),
		Settings: map[string]string{
			models.SettingSiteName: "Test College",
			models.SettingAddress:  "Main Road",
		},
		Flash: FlashMessages{Success: []string{"Saved <ok>"}},
	}

	html := renderString(t, Layout(data, templ.Raw("<p>body</p>")))

	assert.Contains(t, html, "<title>Library | Test College</title>")
	assert.Contains(t, html, `<a href="/library" class="active">Library</a>`)
	assert.Contains(t, html, "Saved &lt;ok&gt;")
	assert.Contains(t, html, "<p>body</p>")
	assert.Contains(t, html, "Main Road")
	assert.NotContains(t, html, "/admin/logout")
}

func TestLayout_AdminNav(t *testing.T) {
	teacher := &models.Admin{ID: 2, Username: "ravi", Role: models.RoleTeacher}
	html := renderString(t, Layout(PageData{User: teacher, CSRFToken: "tok"}, nil))

	assert.Contains(t, html, "/admin/books")
	assert.Contains(t, html, "/admin/logout")
	assert.Contains(t, html, `name="csrf_token" value="tok"`)
	assert.NotContains(t, html, "/admin/users")

	admin := &models.Admin{ID: 1, Username: "root", Role: models.RoleAdmin}
	html = renderString(t, Layout(PageData{User: admin}, nil))
	assert.Contains(t, html, "/admin/users")
	assert.Contains(t, html, "/admin/settings")
}

func TestSiteNameFallback(t *testing.T) {
	assert.Equal(t, "College", PageData{}.SiteName())
}

func TestLibrary_EscapesAndLinks(t *testing.T) {
	link := "https://drive.google.com/file/d/abc123/view"
	data := LibraryData{
		Books: []BookView{{
			Book:  models.Book{Title: "<script>x</script>", Author: "A", Subject: "Physics"},
			Links: services.NormalizeDocumentLink(link),
		}},
		Subjects: []string{"Physics", "Chemistry"},
		Filter:   models.BookFilter{Subject: "Physics"},
	}

	html := renderString(t, Library(data))

	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "https://drive.google.com/file/d/abc123/preview")
	assert.Contains(t, html, `<option value="Physics" selected>`)
}

func TestNotices_RendersSanitizedHTML(t *testing.T) {
	data := NoticesData{Notices: []NoticeView{{
		Notice: models.Notice{Title: "Exam", Category: "Exam", IsImportant: true, PostDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		HTML:   "<p><strong>Bring ID</strong></p>",
	}}}

	html := renderString(t, Notices(data))

	assert.Contains(t, html, "<strong>Bring ID</strong>")
	assert.Contains(t, html, "Important")
	assert.Contains(t, html, "01 Mar 2024")
}

func TestManageContent(t *testing.T) {
	data := ManageData{
		PageData: PageData{CSRFToken: "tok"},
		Section:  "books",
		Heading:  "Books",
		Fields:   []FormField{{Name: "title", Label: "Title", Kind: "text", Required: true}},
		Columns:  []string{"Title"},
		Rows: []ContentRow{
			{ID: 7, Cells: []string{"Optics"}, Active: true},
			{ID: 8, Cells: []string{"Old"}, Active: false},
		},
	}

	html := renderString(t, ManageContent(data))

	assert.Contains(t, html, `action="/admin/books/add"`)
	assert.Contains(t, html, `action="/admin/books/7/deactivate"`)
	assert.NotContains(t, html, "/admin/books/8/deactivate")
	assert.Contains(t, html, `<tr class="inactive">`)
}

func TestUsers_HidesSelfDelete(t *testing.T) {
	me := &models.Admin{ID: 1, Username: "root", Role: models.RoleAdmin}
	data := UsersData{
		PageData: PageData{User: me},
		Admins:   []models.Admin{*me, {ID: 2, Username: "ravi", Role: models.RoleTeacher}},
	}

	html := renderString(t, Users(data))

	assert.NotContains(t, html, "/admin/users/1/delete")
	assert.Contains(t, html, "/admin/users/2/delete")
}

func TestAnalytics(t *testing.T) {
	data := AnalyticsData{Summary: models.VisitorSummary{
		Today:  3,
		Daily:  []models.DailyCount{{Label: "Mar 14", Count: 1}, {Label: "Mar 15", Count: 2}},
		ByPage: []models.PageCount{{Page: models.PageHome, Count: 4}},
	}}

	html := renderString(t, Analytics(data))

	assert.Contains(t, html, "Mar 15")
	assert.Contains(t, html, "width:100%")
	assert.Contains(t, html, "width:50%")
	assert.Contains(t, html, "<td>home</td><td>4</td>")
}
