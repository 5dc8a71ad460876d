package model

// BlogPost is an article from the content catalogue.
type BlogPost struct {
	Slug     string `json:"slug"     yaml:"slug"`
	Title    string `json:"title"    yaml:"title"`
	Excerpt  string `json:"excerpt"  yaml:"excerpt"`
	Content  string `json:"content"  yaml:"content"`
	Date     string `json:"date"     yaml:"date"`
	Author   string `json:"author"   yaml:"author"`
	Category string `json:"category" yaml:"category"`
	ReadTime string `json:"readTime" yaml:"read_time"`
	Image    string `json:"image"    yaml:"image"`
}

// Project is a completed initiative shown on the portfolio page.
type Project struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image"       yaml:"image"`
	Location    string `json:"location"    yaml:"location"`
	Impact      string `json:"impact"      yaml:"impact"`
	Category    string `json:"category"    yaml:"category"`
}

type TeamMember struct {
	Name   string `json:"name"   yaml:"name"`
	Role   string `json:"role"   yaml:"role"`
	Bio    string `json:"bio"    yaml:"bio"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// DataPoint is one labelled value in a home page data set.
type DataPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Counter is a headline figure such as "1000+ Trees Planted".
type Counter struct {
	Value  int    `json:"value"  yaml:"value"`
	Suffix string `json:"suffix" yaml:"suffix"`
	Label  string `json:"label"  yaml:"label"`
}

// Stats backs the "Climate Crisis at a Glance" and "Our Impact" sections.
type Stats struct {
	Temperature []DataPoint `json:"temperature" yaml:"temperature"`
	Emissions   []DataPoint `json:"emissions"   yaml:"emissions"`
	Impact      []DataPoint `json:"impact"      yaml:"impact"`
	Counters    []Counter   `json:"counters"    yaml:"counters"`
}

// Quote is an attributed statement, such as the founder's message.
type Quote struct {
	Text   string `json:"text"   yaml:"text"`
	Name   string `json:"name"   yaml:"name"`
	Role   string `json:"role"   yaml:"role"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// ContactInfo is the organisation's postal and electronic address.
type ContactInfo struct {
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone"   yaml:"phone"`
	Email   string `json:"email"   yaml:"email"`
}

// Site holds the organisation-wide copy shared by several pages.
type Site struct {
	Name    string      `json:"name"    yaml:"name"`
	Tagline string      `json:"tagline" yaml:"tagline"`
	Mission []string    `json:"mission" yaml:"mission"`
	Quote   Quote       `json:"quote"   yaml:"quote"`
	Contact ContactInfo `json:"contact" yaml:"contact"`
}
