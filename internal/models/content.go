package models

import "time"

// Book is a library catalogue entry hosted on an external drive.
type Book struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Author       string    `gorm:"size:200;not null" json:"author"`
	Subject      string    `gorm:"size:100;not null;index" json:"subject"`
	Semester     string    `gorm:"size:20" json:"semester"`
	Course       string    `gorm:"size:100" json:"course"`
	DriveLink    string    `gorm:"size:500;not null" json:"drive_link"`
	DownloadLink string    `gorm:"size:500" json:"download_link"`
	Description  string    `gorm:"type:text" json:"description"`
	UploadedBy   string    `gorm:"size:120" json:"uploaded_by"`
	UploadDate   time.Time `gorm:"index" json:"upload_date"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (Book) TableName() string { return "books" }

// Result is a published examination result document.
type Result struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	ExamType   string    `gorm:"size:100" json:"exam_type"`
	Course     string    `gorm:"size:100" json:"course"`
	Semester   string    `gorm:"size:20" json:"semester"`
	Year       string    `gorm:"size:10" json:"year"`
	DriveLink  string    `gorm:"size:500;not null" json:"drive_link"`
	UploadedBy string    `gorm:"size:120" json:"uploaded_by"`
	UploadDate time.Time `gorm:"index" json:"upload_date"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (Result) TableName() string { return "results" }

// Notice is an announcement shown on the notice board.
type Notice struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:300;not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"` // Markdown
	Category       string    `gorm:"size:50" json:"category"`
	AttachmentLink string    `gorm:"size:500" json:"attachment_link"`
	IsImportant    bool      `gorm:"not null;default:false" json:"is_important"`
	PostedBy       string    `gorm:"size:120" json:"posted_by"`
	PostDate       time.Time `gorm:"index" json:"post_date"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (Notice) TableName() string { return "notices" }

// Faculty is a teaching staff profile.
type Faculty struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Designation    string    `gorm:"size:100" json:"designation"`
	Department     string    `gorm:"size:100;index" json:"department"`
	Qualification  string    `gorm:"size:200" json:"qualification"`
	Email          string    `gorm:"size:120" json:"email"`
	Phone          string    `gorm:"size:15" json:"phone"`
	PhotoURL       string    `gorm:"size:500" json:"photo_url"`
	Experience     string    `gorm:"size:50" json:"experience"`
	Specialization string    `gorm:"size:200" json:"specialization"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (Faculty) TableName() string { return "faculty" }

// Course is a degree programme offered by the college.
type Course struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Code        string    `gorm:"size:20" json:"code"`
	Duration    string    `gorm:"size:50" json:"duration"`
	Description string    `gorm:"type:text" json:"description"`
	Eligibility string    `gorm:"type:text" json:"eligibility"`
	Seats       int       `gorm:"not null;default:0" json:"seats"`
	Department  string    `gorm:"size:100" json:"department"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (Course) TableName() string { return "courses" }

// GalleryImage is a photo shown in the campus gallery.
type GalleryImage struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200" json:"title"`
	ImageURL   string    `gorm:"size:500;not null" json:"image_url"`
	Category   string    `gorm:"size:50;index" json:"category"`
	UploadDate time.Time `gorm:"index" json:"upload_date"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the database table name.
func (GalleryImage) TableName() string { return "gallery" }

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID      int64     `gorm:"primaryKey" json:"id"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Email   string    `gorm:"size:120;not null" json:"email"`
	Phone   string    `gorm:"size:15" json:"phone"`
	Subject string    `gorm:"size:200" json:"subject"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Date    time.Time `gorm:"index" json:"date"`
	IsRead  bool      `gorm:"not null;default:false;index" json:"is_read"`
}

// TableName returns the database table name.
func (ContactMessage) TableName() string { return "contact_messages" }

// BookFilter narrows the public library listing.
type BookFilter struct {
	Subject  string
	Course   string
	Semester string
	Search   string
}

// GalleryFilter narrows the public gallery listing.
type GalleryFilter struct {
	Category string
}

// BookCreate contains data for adding a library book.
type BookCreate struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Author      string `form:"author" json:"author" validate:"required,max=200"`
	Subject     string `form:"subject" json:"subject" validate:"required,max=100"`
	Semester    string `form:"semester" json:"semester" validate:"max=20"`
	Course      string `form:"course" json:"course" validate:"max=100"`
	DriveLink   string `form:"drive_link" json:"drive_link" validate:"required,max=500"`
	Description string `form:"description" json:"description"`
}

// ResultCreate contains data for publishing a result.
type ResultCreate struct {
	Title     string `form:"title" json:"title" validate:"required,max=200"`
	ExamType  string `form:"exam_type" json:"exam_type" validate:"max=100"`
	Course    string `form:"course" json:"course" validate:"max=100"`
	Semester  string `form:"semester" json:"semester" validate:"max=20"`
	Year      string `form:"year" json:"year" validate:"max=10"`
	DriveLink string `form:"drive_link" json:"drive_link" validate:"required,max=500"`
}

// NoticeCreate contains data for posting a notice.
type NoticeCreate struct {
	Title          string `form:"title" json:"title" validate:"required,max=300"`
	Content        string `form:"content" json:"content" validate:"required"`
	Category       string `form:"category" json:"category" validate:"max=50"`
	AttachmentLink string `form:"attachment_link" json:"attachment_link" validate:"max=500"`
	IsImportant    bool   `form:"is_important" json:"is_important"`
}

// FacultyCreate contains data for adding a faculty profile.
type FacultyCreate struct {
	Name           string `form:"name" json:"name" validate:"required,max=200"`
	Designation    string `form:"designation" json:"designation" validate:"max=100"`
	Department     string `form:"department" json:"department" validate:"max=100"`
	Qualification  string `form:"qualification" json:"qualification" validate:"max=200"`
	Email          string `form:"email" json:"email" validate:"max=120"`
	Phone          string `form:"phone" json:"phone" validate:"max=15"`
	PhotoURL       string `form:"photo_url" json:"photo_url" validate:"max=500"`
	Experience     string `form:"experience" json:"experience" validate:"max=50"`
	Specialization string `form:"specialization" json:"specialization" validate:"max=200"`
}

// CourseCreate contains data for adding a course.
type CourseCreate struct {
	Name        string `form:"name" json:"name" validate:"required,max=200"`
	Code        string `form:"code" json:"code" validate:"max=20"`
	Duration    string `form:"duration" json:"duration" validate:"max=50"`
	Description string `form:"description" json:"description"`
	Eligibility string `form:"eligibility" json:"eligibility"`
	Seats       int    `form:"seats" json:"seats" validate:"min=0"`
	Department  string `form:"department" json:"department" validate:"max=100"`
}

// GalleryCreate contains data for adding a gallery image.
type GalleryCreate struct {
	Title    string `form:"title" json:"title" validate:"max=200"`
	ImageURL string `form:"image_url" json:"image_url" validate:"required,max=500"`
	Category string `form:"category" json:"category" validate:"max=50"`
}

// ContactCreate contains a public contact form submission.
type ContactCreate struct {
	Name    string `form:"name" json:"name" validate:"required,max=100"`
	Email   string `form:"email" json:"email" validate:"required,max=120"`
	Phone   string `form:"phone" json:"phone" validate:"max=15"`
	Subject string `form:"subject" json:"subject" validate:"max=200"`
	Message string `form:"message" json:"message" validate:"required"`
}
