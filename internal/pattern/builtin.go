// Package pattern holds the library of proven implementation templates
// and the matcher that maps free-text feature requests onto them.
//
// Built-in patterns cover the two supported project categories (landing
// pages and SaaS applications); extra patterns can be layered on from
// YAML files.
package pattern

import "github.com/genesis-agents/genesis/pkg/models"

// builtinPatterns is the default library content. Order matters: ties in
// match scoring resolve to the earlier entry.
var builtinPatterns = []Pattern{
	{
		ID:               "lp_hero_section",
		Name:             "Hero Section",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Main hero section with headline, subheadline, CTA, and optional image/video",
		Keywords:         []string{"hero", "header", "headline", "banner", "above fold", "cta", "call to action"},
		Components:       []string{"Hero", "CTAButton", "VideoEmbed"},
		Files:            []string{"components/Hero.tsx", "components/ui/Button.tsx"},
		Dependencies:     []string{"tailwindcss", "lucide-react"},
		EstimatedMinutes: 15,
		Complexity:       ComplexitySimple,
	},
	{
		ID:               "lp_features_showcase",
		Name:             "Features Showcase",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Grid or list of product/service features with icons and descriptions",
		Keywords:         []string{"features", "benefits", "what we offer", "why us", "advantages"},
		Components:       []string{"Features", "FeatureCard"},
		Files:            []string{"components/Features.tsx", "components/FeatureCard.tsx"},
		Dependencies:     []string{"tailwindcss", "lucide-react"},
		EstimatedMinutes: 20,
		Complexity:       ComplexitySimple,
	},
	{
		ID:               "lp_contact_form",
		Name:             "Lead Capture Form",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Contact/lead capture form with validation and email integration",
		Keywords:         []string{"contact", "form", "lead", "signup", "email capture", "subscribe", "newsletter"},
		Components:       []string{"ContactForm", "Input", "Textarea", "Button"},
		Files: []string{
			"components/ContactForm.tsx",
			"components/ui/Input.tsx",
			"components/ui/Textarea.tsx",
			"app/api/contact/route.ts",
			"lib/email.ts",
		},
		Dependencies:     []string{"react-hook-form", "zod", "@hookform/resolvers", "resend"},
		EstimatedMinutes: 30,
		Complexity:       ComplexityMedium,
	},
	{
		ID:               "lp_social_proof",
		Name:             "Social Proof / Testimonials",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Customer testimonials, reviews, or trust indicators",
		Keywords:         []string{"testimonials", "reviews", "social proof", "customers", "trust", "ratings"},
		Components:       []string{"Testimonials", "TestimonialCard", "TrustBadges"},
		Files: []string{
			"components/Testimonials.tsx",
			"components/TestimonialCard.tsx",
			"lib/testimonials-data.ts",
		},
		Dependencies:     []string{"tailwindcss"},
		EstimatedMinutes: 15,
		Complexity:       ComplexitySimple,
	},
	{
		ID:               "lp_pricing_table",
		Name:             "Pricing Table",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Pricing plans comparison table with features and CTAs",
		Keywords:         []string{"pricing", "plans", "packages", "subscription", "cost", "price"},
		Components:       []string{"Pricing", "PricingCard"},
		Files: []string{
			"components/Pricing.tsx",
			"components/PricingCard.tsx",
			"lib/pricing-data.ts",
		},
		Dependencies:     []string{"tailwindcss"},
		EstimatedMinutes: 20,
		Complexity:       ComplexitySimple,
	},
	{
		ID:               "lp_faq",
		Name:             "FAQ Section",
		Category:         models.ProjectTypeLandingPage,
		Description:      "Frequently asked questions with collapsible answers",
		Keywords:         []string{"faq", "questions", "help", "support", "answers"},
		Components:       []string{"FAQ", "Accordion"},
		Files: []string{
			"components/FAQ.tsx",
			"components/ui/Accordion.tsx",
			"lib/faq-data.ts",
		},
		Dependencies:     []string{"tailwindcss", "@radix-ui/react-accordion"},
		EstimatedMinutes: 15,
		Complexity:       ComplexitySimple,
	},
	{
		ID:               "saas_authentication",
		Name:             "User Authentication",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "Complete auth system with login, signup, password reset, and session management",
		Keywords:         []string{"auth", "authentication", "login", "signup", "register", "password", "session"},
		Components:       []string{"LoginForm", "SignupForm", "AuthProvider"},
		Files: []string{
			"app/(auth)/login/page.tsx",
			"app/(auth)/signup/page.tsx",
			"app/api/auth/[...nextauth]/route.ts",
			"lib/auth/config.ts",
			"lib/auth/session.ts",
			"middleware.ts",
		},
		Dependencies:     []string{"next-auth", "bcrypt", "@prisma/client"},
		EstimatedMinutes: 45,
		Complexity:       ComplexityComplex,
	},
	{
		ID:               "saas_dashboard",
		Name:             "User Dashboard",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "Main user dashboard with navigation, stats, and recent activity",
		Keywords:         []string{"dashboard", "home", "overview", "stats", "analytics", "main page"},
		Components:       []string{"Dashboard", "StatCard", "Sidebar", "Navigation"},
		Files: []string{
			"app/(dashboard)/dashboard/page.tsx",
			"components/dashboard/Sidebar.tsx",
			"components/dashboard/StatCard.tsx",
			"components/dashboard/RecentActivity.tsx",
		},
		Dependencies:     []string{"tailwindcss", "recharts"},
		EstimatedMinutes: 30,
		Complexity:       ComplexityMedium,
	},
	{
		ID:               "saas_settings",
		Name:             "User Settings",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "User profile and account settings with preferences",
		Keywords:         []string{"settings", "preferences", "profile", "account", "configuration"},
		Components:       []string{"Settings", "SettingsForm", "ProfileUpload"},
		Files: []string{
			"app/(dashboard)/settings/page.tsx",
			"components/settings/ProfileForm.tsx",
			"components/settings/PasswordForm.tsx",
			"app/api/user/settings/route.ts",
		},
		Dependencies:     []string{"react-hook-form", "zod", "@hookform/resolvers"},
		EstimatedMinutes: 25,
		Complexity:       ComplexityMedium,
	},
	{
		ID:               "saas_team_management",
		Name:             "Team Management",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "Multi-tenant team/organization management with invitations and roles",
		Keywords:         []string{"team", "organization", "members", "invite", "roles", "permissions", "multi-tenant"},
		Components:       []string{"TeamList", "MemberCard", "InviteDialog", "RoleSelector"},
		Files: []string{
			"app/(dashboard)/team/page.tsx",
			"components/team/MemberCard.tsx",
			"components/team/InviteDialog.tsx",
			"app/api/team/route.ts",
			"lib/team/permissions.ts",
		},
		Dependencies:     []string{"@prisma/client", "zod"},
		EstimatedMinutes: 40,
		Complexity:       ComplexityComplex,
	},
	{
		ID:               "saas_api_routes",
		Name:             "API Routes",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "RESTful API endpoints for data operations (CRUD)",
		Keywords:         []string{"api", "endpoints", "rest", "crud", "backend", "routes"},
		Components:       []string{"API Routes"},
		Files: []string{
			"app/api/[resource]/route.ts",
			"app/api/[resource]/[id]/route.ts",
			"lib/api/middleware.ts",
			"lib/api/validators.ts",
		},
		Dependencies:     []string{"zod", "@prisma/client"},
		EstimatedMinutes: 35,
		Complexity:       ComplexityMedium,
	},
	{
		ID:               "saas_notifications",
		Name:             "Notifications System",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "In-app notifications with real-time updates and preferences",
		Keywords:         []string{"notifications", "alerts", "updates", "messages", "real-time"},
		Components:       []string{"NotificationCenter", "NotificationItem", "NotificationProvider"},
		Files: []string{
			"components/notifications/NotificationCenter.tsx",
			"components/notifications/NotificationItem.tsx",
			"app/api/notifications/route.ts",
			"lib/notifications/send.ts",
		},
		Dependencies:     []string{"@prisma/client", "pusher-js"},
		EstimatedMinutes: 30,
		Complexity:       ComplexityMedium,
	},
	{
		ID:               "saas_billing",
		Name:             "Subscription Billing",
		Category:         models.ProjectTypeSaaSApp,
		Description:      "Stripe integration for subscription management and payments",
		Keywords:         []string{"billing", "payment", "stripe", "subscription", "checkout", "pricing"},
		Components:       []string{"BillingPage", "SubscriptionCard", "PaymentForm"},
		Files: []string{
			"app/(dashboard)/billing/page.tsx",
			"app/api/stripe/webhook/route.ts",
			"app/api/create-checkout/route.ts",
			"lib/stripe/config.ts",
			"lib/stripe/webhooks.ts",
		},
		Dependencies:     []string{"stripe", "@stripe/stripe-js"},
		EstimatedMinutes: 50,
		Complexity:       ComplexityComplex,
	},
}
