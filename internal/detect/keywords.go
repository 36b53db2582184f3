// Package detect classifies a free-text project description as a
// landing page or a SaaS application, using keyword and feature-phrase
// scoring with opposing-indicator penalties.
package detect

// LandingPageKeywords indicate marketing / lead-generation projects.
var LandingPageKeywords = []string{
	"landing page", "marketing", "lead generation", "lead capture",
	"product launch", "campaign", "promotional", "conversion",
	"email signup", "waitlist", "pre-launch", "coming soon",
	"sales page", "squeeze page", "opt-in", "contact form",
}

// SaaSAppKeywords indicate multi-tenant application projects. The first
// five double as the penalty set for landing-page scoring.
var SaaSAppKeywords = []string{
	"saas", "application", "dashboard", "user management",
	"authentication", "auth", "login", "signup", "register",
	"multi-tenant", "subscription", "billing", "payment",
	"admin panel", "user portal", "team", "organization",
	"api", "database", "crud", "backend",
}

// LandingPageFeatures are feature phrases typical of landing pages.
var LandingPageFeatures = []string{
	"hero section", "features showcase", "testimonials",
	"pricing table", "faq", "call to action", "cta",
	"social proof", "trust badges", "video embed",
}

// SaaSAppFeatures are feature phrases typical of SaaS applications.
var SaaSAppFeatures = []string{
	"user dashboard", "profile", "settings", "notifications",
	"team management", "role-based access", "permissions",
	"data visualization", "analytics", "reports",
	"file upload", "export", "import", "api integration",
}
