package domain

import "context"

// Project is a portfolio project shown on the home page and its own detail page.
type Project struct {
	OrderedModel
	Title       string   `gorm:"size:200;not null" json:"title" binding:"required,max=200"`
	Description string   `gorm:"size:500;not null" json:"description" binding:"required,max=500"`
	Content     string   `gorm:"type:text" json:"content"`
	Category    string   `gorm:"size:100;index" json:"category" binding:"max=100"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	ImageURL    string   `gorm:"size:500" json:"imageUrl" binding:"omitempty,url"`
	GithubURL   string   `gorm:"size:500" json:"githubUrl" binding:"omitempty,url"`
	LiveURL     string   `gorm:"size:500" json:"liveUrl" binding:"omitempty,url"`
	Featured    bool     `gorm:"not null;default:false" json:"featured"`
	Visible     bool     `gorm:"not null" json:"visible"`
}

// Education is one entry of the education timeline.
type Education struct {
	OrderedModel
	Institution  string `gorm:"size:200;not null" json:"institution" binding:"required,max=200"`
	Degree       string `gorm:"size:200;not null" json:"degree" binding:"required,max=200"`
	FieldOfStudy string `gorm:"size:200" json:"fieldOfStudy" binding:"max=200"`
	StartDate    string `gorm:"size:10;not null" json:"startDate" binding:"required,datetime=2006-01"`
	EndDate      string `gorm:"size:10" json:"endDate" binding:"omitempty,datetime=2006-01"`
	Description  string `gorm:"type:text" json:"description"`
	LogoURL      string `gorm:"size:500" json:"logoUrl" binding:"omitempty,url"`
	Visible      bool   `gorm:"not null" json:"visible"`
}

// TableName avoids GORM's "educations".
func (Education) TableName() string { return "education" }

// Experience is one entry of the work history.
type Experience struct {
	OrderedModel
	Company      string   `gorm:"size:200;not null" json:"company" binding:"required,max=200"`
	Title        string   `gorm:"size:200;not null" json:"title" binding:"required,max=200"`
	Location     string   `gorm:"size:200" json:"location" binding:"max=200"`
	StartDate    string   `gorm:"size:10;not null" json:"startDate" binding:"required,datetime=2006-01"`
	EndDate      string   `gorm:"size:10" json:"endDate" binding:"omitempty,datetime=2006-01"`
	Current      bool     `gorm:"not null;default:false" json:"current"`
	Description  string   `gorm:"type:text" json:"description"`
	Technologies []string `gorm:"serializer:json" json:"technologies"`
	LogoURL      string   `gorm:"size:500" json:"logoUrl" binding:"omitempty,url"`
	Visible      bool     `gorm:"not null" json:"visible"`
}

// TableName avoids GORM's "experiences".
func (Experience) TableName() string { return "experience" }

// Skill is a named skill with a proficiency level and an optional icon.
type Skill struct {
	OrderedModel
	Name     string `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	Category string `gorm:"size:100;not null;index" json:"category" binding:"required,max=100"`
	Level    int    `gorm:"not null;default:0" json:"level" binding:"min=0,max=100"`
	Icon     Icon   `gorm:"size:50" json:"icon" binding:"icon"`
	Visible  bool   `gorm:"not null" json:"visible"`
}

// GalleryImage is a single image in the public gallery.
type GalleryImage struct {
	OrderedModel
	Title       string `gorm:"size:200;not null" json:"title" binding:"required,max=200"`
	ImageURL    string `gorm:"size:500;not null" json:"imageUrl" binding:"required"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category" binding:"max=100"`
	Visible     bool   `gorm:"not null" json:"visible"`
}

// Testimonial is a quote from a client or colleague, curated by the admin.
type Testimonial struct {
	OrderedModel
	Name      string `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Role      string `gorm:"size:200" json:"role" binding:"max=200"`
	Company   string `gorm:"size:200" json:"company" binding:"max=200"`
	Content   string `gorm:"type:text;not null" json:"content" binding:"required"`
	AvatarURL string `gorm:"size:500" json:"avatarUrl" binding:"omitempty,url"`
	Rating    int    `gorm:"not null" json:"rating" binding:"min=0,max=5"`
	Approved  bool   `gorm:"not null;default:false" json:"approved"`
	Featured  bool   `gorm:"not null;default:false" json:"featured"`
}

// Feedback is submitted by visitors and shown once approved.
type Feedback struct {
	OrderedModel
	Name     string `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Email    string `gorm:"size:255;not null" json:"email" binding:"required,email"`
	Rating   int    `gorm:"not null" json:"rating" binding:"required,min=1,max=5"`
	Message  string `gorm:"type:text;not null" json:"message" binding:"required,max=5000"`
	Approved bool   `gorm:"not null;default:false" json:"approved"`
}

// TableName avoids GORM's "feedbacks".
func (Feedback) TableName() string { return "feedback" }

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	OrderedModel
	Name    string `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Email   string `gorm:"size:255;not null" json:"email" binding:"required,email"`
	Subject string `gorm:"size:300" json:"subject" binding:"max=300"`
	Message string `gorm:"type:text;not null" json:"message" binding:"required,max=5000"`
	Read    bool   `gorm:"column:is_read;not null;default:false" json:"read"`
}

// ContactNotifier tells the site owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg *ContactMessage) error
}
