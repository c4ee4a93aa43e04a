package textnorm

// lemmas maps inflected forms to their dictionary base form, regardless of
// part of speech. Gerunds that name skills ("testing", "learning",
// "networking") have no entry. No base form may appear as a key.
var lemmas = map[string]string{
	// nouns
	"abilities":        "ability",
	"achievements":     "achievement",
	"analyses":         "analysis",
	"apis":             "api",
	"applications":     "application",
	"architectures":    "architecture",
	"backends":         "backend",
	"benefits":         "benefit",
	"candidates":       "candidate",
	"certifications":   "certification",
	"children":         "child",
	"clients":          "client",
	"clusters":         "cluster",
	"companies":        "company",
	"components":       "component",
	"containers":       "container",
	"courses":          "course",
	"customers":        "customer",
	"dashboards":       "dashboard",
	"databases":        "database",
	"degrees":          "degree",
	"deployments":      "deployment",
	"designers":        "designer",
	"developers":       "developer",
	"duties":           "duty",
	"engineers":        "engineer",
	"environments":     "environment",
	"features":         "feature",
	"frameworks":       "framework",
	"frontends":        "frontend",
	"goals":            "goal",
	"languages":        "language",
	"libraries":        "library",
	"managers":         "manager",
	"men":              "man",
	"methodologies":    "methodology",
	"metrics":          "metric",
	"microservices":    "microservice",
	"models":           "model",
	"months":           "month",
	"pipelines":        "pipeline",
	"platforms":        "platform",
	"practices":        "practice",
	"processes":        "process",
	"products":         "product",
	"projects":         "project",
	"qualifications":   "qualification",
	"queries":          "query",
	"requirements":     "requirement",
	"responsibilities": "responsibility",
	"roles":            "role",
	"servers":          "server",
	"services":         "service",
	"skills":           "skill",
	"solutions":        "solution",
	"specialists":      "specialist",
	"stakeholders":     "stakeholder",
	"strategies":       "strategy",
	"studies":          "study",
	"systems":          "system",
	"teams":            "team",
	"technologies":     "technology",
	"tests":            "test",
	"tools":            "tool",
	"users":            "user",
	"women":            "woman",
	"workflows":        "workflow",
	"years":            "year",

	// verbs
	"achieved":      "achieve",
	"achieving":     "achieve",
	"analyzed":      "analyze",
	"analyzing":     "analyze",
	"architected":   "architect",
	"automated":     "automate",
	"automating":    "automate",
	"built":         "build",
	"building":      "build",
	"builds":        "build",
	"collaborated":  "collaborate",
	"collaborating": "collaborate",
	"created":       "create",
	"creating":      "create",
	"creates":       "create",
	"delivered":     "deliver",
	"delivering":    "deliver",
	"deployed":      "deploy",
	"deploying":     "deploy",
	"deploys":       "deploy",
	"designed":      "design",
	"designing":     "design",
	"designs":       "design",
	"developed":     "develop",
	"developing":    "develop",
	"develops":      "develop",
	"implemented":   "implement",
	"implementing":  "implement",
	"implements":    "implement",
	"improved":      "improve",
	"improving":     "improve",
	"integrated":    "integrate",
	"integrating":   "integrate",
	"led":           "lead",
	"leading":       "lead",
	"leads":         "lead",
	"maintained":    "maintain",
	"maintaining":   "maintain",
	"maintains":     "maintain",
	"managed":       "manage",
	"managing":      "manage",
	"manages":       "manage",
	"mentored":      "mentor",
	"mentoring":     "mentor",
	"migrated":      "migrate",
	"migrating":     "migrate",
	"optimized":     "optimize",
	"optimizing":    "optimize",
	"required":      "require",
	"requires":      "require",
	"requiring":     "require",
	"ran":           "run",
	"running":       "run",
	"runs":          "run",
	"scaled":        "scale",
	"scaling":       "scale",
	"tested":        "test",
	"used":          "use",
	"using":         "use",
	"uses":          "use",
	"worked":        "work",
	"working":       "work",
	"works":         "work",
	"wrote":         "write",
	"writing":       "write",
	"written":       "write",
	"writes":        "write",
}

// Lemma returns the base form of a lowercase token, or the token itself when
// the lexicon has no entry for it.
func Lemma(token string) string {
	if base, ok := lemmas[token]; ok {
		return base
	}
	return token
}
