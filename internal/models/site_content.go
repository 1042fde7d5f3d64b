package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteContentID is the fixed primary key of the singleton row.
const SiteContentID = 1

// SiteContent is the single row of editable site copy. Every text shown on
// the public site lives here so admins can edit it without a deploy. The
// row is get-or-created on first access; defaults come from SiteContentDefaults.
type SiteContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Hero section
	HeroTitle               string `json:"hero_title"`
	HeroSubtitle            string `json:"hero_subtitle"`
	HeroDescription         string `json:"hero_description"`
	HeroPrimaryButtonText   string `json:"hero_primary_button_text"`
	HeroSecondaryButtonText string `json:"hero_secondary_button_text"`

	// Headline stats
	StatsResearchers       int    `json:"stats_researchers"`
	StatsPublications      int    `json:"stats_publications"`
	StatsAwards            int    `json:"stats_awards"`
	StatsEvents            int    `json:"stats_events"`
	StatsResearchersLabel  string `json:"stats_researchers_label"`
	StatsPublicationsLabel string `json:"stats_publications_label"`
	StatsAwardsLabel       string `json:"stats_awards_label"`
	StatsEventsLabel       string `json:"stats_events_label"`

	// About page
	AboutTitle       string `json:"about_title"`
	AboutSubtitle    string `json:"about_subtitle"`
	AboutTeamName    string `json:"about_team_name"`
	AboutDescription string `json:"about_description"`
	AboutMission     string `json:"about_mission"`

	// About > history; content is a list of paragraphs, values a list of
	// {title, description} objects, expertise a list of {title, description,
	// skills} objects.
	AboutHistoryTitle        string         `json:"about_history_title"`
	AboutHistoryContent      datatypes.JSON `json:"about_history_content"`
	AboutHistoryValues       datatypes.JSON `json:"about_history_values"`
	AboutHistoryFounded      string         `json:"about_history_founded"`
	AboutHistoryResearchers  string         `json:"about_history_researchers"`
	AboutHistoryPublications string         `json:"about_history_publications"`
	AboutHistoryAwards       string         `json:"about_history_awards"`
	AboutExpertise           datatypes.JSON `json:"about_expertise"`

	// Contact page and form labels
	ContactAddress     string `json:"contact_address"`
	ContactPhone       string `json:"contact_phone"`
	ContactEmail       string `json:"contact_email"`
	ContactHours       string `json:"contact_hours"`
	ContactTitle       string `json:"contact_title"`
	ContactSubtitle    string `json:"contact_subtitle"`
	ContactFormName    string `json:"contact_form_name"`
	ContactFormEmail   string `json:"contact_form_email"`
	ContactFormSubject string `json:"contact_form_subject"`
	ContactFormMessage string `json:"contact_form_message"`
	ContactFormSend    string `json:"contact_form_send"`

	// Branding
	LogoText     string `json:"logo_text"`
	LogoSubtitle string `json:"logo_subtitle"`
	LogoImageURL string `json:"logo_image_url"`

	// Navigation labels
	NavHome         string `json:"nav_home"`
	NavAbout        string `json:"nav_about"`
	NavProjects     string `json:"nav_projects"`
	NavPublications string `json:"nav_publications"`
	NavEvents       string `json:"nav_events"`
	NavContact      string `json:"nav_contact"`
	NavLogin        string `json:"nav_login"`
	NavRegister     string `json:"nav_register"`
	NavDashboard    string `json:"nav_dashboard"`
	NavProfile      string `json:"nav_profile"`
	NavLogout       string `json:"nav_logout"`

	// Section headers
	ProjectsTitle        string `json:"projects_title"`
	ProjectsSubtitle     string `json:"projects_subtitle"`
	ProjectsViewAll      string `json:"projects_view_all"`
	PublicationsTitle    string `json:"publications_title"`
	PublicationsSubtitle string `json:"publications_subtitle"`
	PublicationsViewAll  string `json:"publications_view_all"`
	EventsTitle          string `json:"events_title"`
	EventsSubtitle       string `json:"events_subtitle"`
	EventsViewAll        string `json:"events_view_all"`

	// Footer; research domains is a list of strings.
	FooterResearchDomains  datatypes.JSON `json:"footer_research_domains"`
	FooterTeamIntroduction string         `json:"footer_team_introduction"`
	FooterTeamName         string         `json:"footer_team_name"`
	FooterCopyright        string         `json:"footer_copyright"`
	FooterAboutTitle       string         `json:"footer_about_title"`
	FooterQuickLinksTitle  string         `json:"footer_quick_links_title"`
	FooterContactTitle     string         `json:"footer_contact_title"`
	FooterFollowUs         string         `json:"footer_follow_us"`

	// Browser page titles
	PageTitleHome         string `json:"page_title_home"`
	PageTitleAbout        string `json:"page_title_about"`
	PageTitleProjects     string `json:"page_title_projects"`
	PageTitlePublications string `json:"page_title_publications"`
	PageTitleEvents       string `json:"page_title_events"`
	PageTitleContact      string `json:"page_title_contact"`
	PageTitleLogin        string `json:"page_title_login"`
	PageTitleRegister     string `json:"page_title_register"`
	PageTitleDashboard    string `json:"page_title_dashboard"`
	PageTitleProfile      string `json:"page_title_profile"`
	PageTitleAdmin        string `json:"page_title_admin"`

	// SEO metadata
	MetaSiteTitle       string `json:"meta_site_title"`
	MetaSiteDescription string `json:"meta_site_description"`
	MetaSiteKeywords    string `json:"meta_site_keywords"`
}

// SiteContentDefaults returns the singleton with its default copy, used when
// the row does not exist yet.
func SiteContentDefaults() SiteContent {
	return SiteContent{
		ID: SiteContentID,

		HeroTitle:               "Innovation & Excellence Scientifique",
		HeroSubtitle:            "Laboratoire de Recherche Avancée",
		HeroDescription:         "Nous repoussons les frontières de la connaissance à travers des recherches innovantes.",
		HeroPrimaryButtonText:   "Découvrir nos projets",
		HeroSecondaryButtonText: "Rejoindre l'équipe",

		StatsResearchers:       28,
		StatsPublications:      156,
		StatsAwards:            15,
		StatsEvents:            52,
		StatsResearchersLabel:  "Chercheurs",
		StatsPublicationsLabel: "Publications",
		StatsAwardsLabel:       "Prix reçus",
		StatsEventsLabel:       "Événements",

		AboutTitle:       "À propos de nous",
		AboutSubtitle:    "Notre équipe de recherche",
		AboutTeamName:    "Équipe de Recherche Excellence",
		AboutDescription: "Une équipe pluridisciplinaire dédiée à l'innovation scientifique",
		AboutMission:     "Transformer les découvertes scientifiques en solutions concrètes pour la société",

		AboutHistoryTitle:        "Notre Histoire",
		AboutHistoryContent:      datatypes.JSON(`[]`),
		AboutHistoryValues:       datatypes.JSON(`[]`),
		AboutHistoryFounded:      "2010",
		AboutHistoryResearchers:  "25+",
		AboutHistoryPublications: "150+",
		AboutHistoryAwards:       "12",
		AboutExpertise:           datatypes.JSON(`[]`),

		ContactTitle:       "Contactez-nous",
		ContactSubtitle:    "Nous sommes à votre écoute",
		ContactFormName:    "Nom",
		ContactFormEmail:   "Email",
		ContactFormSubject: "Sujet",
		ContactFormMessage: "Message",
		ContactFormSend:    "Envoyer",

		LogoText:     "LaboISSim",
		LogoSubtitle: "Laboratoire de Recherche",

		NavHome:         "Accueil",
		NavAbout:        "À propos",
		NavProjects:     "Projets",
		NavPublications: "Publications",
		NavEvents:       "Événements",
		NavContact:      "Contact",
		NavLogin:        "Connexion",
		NavRegister:     "Inscription",
		NavDashboard:    "Tableau de bord",
		NavProfile:      "Profil",
		NavLogout:       "Déconnexion",

		ProjectsTitle:        "Nos Projets",
		ProjectsSubtitle:     "Recherches en cours",
		ProjectsViewAll:      "Voir tous les projets",
		PublicationsTitle:    "Publications",
		PublicationsSubtitle: "Nos derniers travaux",
		PublicationsViewAll:  "Voir toutes les publications",
		EventsTitle:          "Événements",
		EventsSubtitle:       "Conférences et séminaires",
		EventsViewAll:        "Voir tous les événements",

		FooterResearchDomains: datatypes.JSON(`[]`),
		FooterCopyright:       "© 2025 LaboISSim. Tous droits réservés.",
		FooterAboutTitle:      "À propos",
		FooterQuickLinksTitle: "Liens rapides",
		FooterContactTitle:    "Contact",
		FooterFollowUs:        "Suivez-nous",

		PageTitleHome:         "Accueil",
		PageTitleAbout:        "À propos",
		PageTitleProjects:     "Projets",
		PageTitlePublications: "Publications",
		PageTitleEvents:       "Événements",
		PageTitleContact:      "Contact",
		PageTitleLogin:        "Connexion",
		PageTitleRegister:     "Inscription",
		PageTitleDashboard:    "Tableau de bord",
		PageTitleProfile:      "Profil",
		PageTitleAdmin:        "Administration",

		MetaSiteTitle:       "LaboISSim",
		MetaSiteDescription: "Site du laboratoire de recherche",
		MetaSiteKeywords:    "recherche, laboratoire, science",
	}
}
