package taxonomy

// Default returns the built-in skill taxonomy. Entries deliberately omit
// single-letter languages and common-word tool names ("go", "less", "vault")
// that collide with ordinary prose; the canonical form absorbs known aliases
// so counts never split across spellings.
func Default() *Taxonomy {
	t, err := New(builtinSkills)
	if err != nil {
		// The builtin table is validated by tests; a bad entry is a bug.
		panic(err)
	}
	return t
}

var builtinSkills = []SkillDefinition{
	// Programming languages
	{CanonicalName: "python", Category: CategoryProgramming},
	{CanonicalName: "java", Category: CategoryProgramming},
	{CanonicalName: "javascript", Category: CategoryProgramming},
	{CanonicalName: "typescript", Category: CategoryProgramming},
	{CanonicalName: "c++", Category: CategoryProgramming},
	{CanonicalName: "c#", Category: CategoryProgramming},
	{CanonicalName: "php", Category: CategoryProgramming},
	{CanonicalName: "ruby", Category: CategoryProgramming},
	{CanonicalName: "swift", Category: CategoryProgramming},
	{CanonicalName: "kotlin", Category: CategoryProgramming},
	{CanonicalName: "scala", Category: CategoryProgramming},
	{CanonicalName: "golang", Category: CategoryProgramming},
	{CanonicalName: "rust", Category: CategoryProgramming},
	{CanonicalName: "perl", Category: CategoryProgramming},
	{CanonicalName: "matlab", Category: CategoryProgramming},
	{CanonicalName: "dart", Category: CategoryProgramming},
	{CanonicalName: "objective-c", Category: CategoryProgramming},
	{CanonicalName: "bash", Aliases: []string{"shell scripting"}, Category: CategoryProgramming},
	{CanonicalName: "powershell", Category: CategoryProgramming},

	// Frontend
	{CanonicalName: "react", Category: CategoryFrontend},
	{CanonicalName: "angular", Category: CategoryFrontend},
	{CanonicalName: "vue", Aliases: []string{"vue.js", "vuejs"}, Category: CategoryFrontend},
	{CanonicalName: "svelte", Category: CategoryFrontend},
	{CanonicalName: "html", Aliases: []string{"html5"}, Category: CategoryFrontend},
	{CanonicalName: "css", Aliases: []string{"css3"}, Category: CategoryFrontend},
	{CanonicalName: "sass", Aliases: []string{"scss"}, Category: CategoryFrontend},
	{CanonicalName: "bootstrap", Category: CategoryFrontend},
	{CanonicalName: "tailwind css", Aliases: []string{"tailwind"}, Category: CategoryFrontend},
	{CanonicalName: "material ui", Category: CategoryFrontend},
	{CanonicalName: "jquery", Category: CategoryFrontend},
	{CanonicalName: "webpack", Category: CategoryFrontend},
	{CanonicalName: "vite", Category: CategoryFrontend},
	{CanonicalName: "nextjs", Aliases: []string{"next.js"}, Category: CategoryFrontend},
	{CanonicalName: "nuxtjs", Aliases: []string{"nuxt.js"}, Category: CategoryFrontend},
	{CanonicalName: "gatsby", Category: CategoryFrontend},

	// Backend
	{CanonicalName: "nodejs", Aliases: []string{"node.js", "node"}, Category: CategoryBackend},
	{CanonicalName: "express", Aliases: []string{"express.js"}, Category: CategoryBackend},
	{CanonicalName: "django", Category: CategoryBackend},
	{CanonicalName: "flask", Category: CategoryBackend},
	{CanonicalName: "fastapi", Category: CategoryBackend},
	{CanonicalName: "spring boot", Category: CategoryBackend},
	{CanonicalName: "spring", Category: CategoryBackend},
	{CanonicalName: "laravel", Category: CategoryBackend},
	{CanonicalName: "symfony", Category: CategoryBackend},
	{CanonicalName: "rails", Aliases: []string{"ruby on rails"}, Category: CategoryBackend},
	{CanonicalName: "asp.net", Category: CategoryBackend},
	{CanonicalName: "nestjs", Aliases: []string{"nest.js"}, Category: CategoryBackend},
	{CanonicalName: "graphql", Category: CategoryBackend},
	{CanonicalName: "grpc", Category: CategoryBackend},

	// Databases
	{CanonicalName: "mysql", Category: CategoryDatabase},
	{CanonicalName: "postgresql", Aliases: []string{"postgres"}, Category: CategoryDatabase},
	{CanonicalName: "mongodb", Category: CategoryDatabase},
	{CanonicalName: "redis", Category: CategoryDatabase},
	{CanonicalName: "cassandra", Category: CategoryDatabase},
	{CanonicalName: "elasticsearch", Category: CategoryDatabase},
	{CanonicalName: "sqlite", Category: CategoryDatabase},
	{CanonicalName: "oracle", Category: CategoryDatabase},
	{CanonicalName: "sql server", Category: CategoryDatabase},
	{CanonicalName: "dynamodb", Category: CategoryDatabase},
	{CanonicalName: "couchdb", Category: CategoryDatabase},
	{CanonicalName: "couchbase", Category: CategoryDatabase},
	{CanonicalName: "neo4j", Category: CategoryDatabase},
	{CanonicalName: "influxdb", Category: CategoryDatabase},
	{CanonicalName: "clickhouse", Category: CategoryDatabase},
	{CanonicalName: "mariadb", Category: CategoryDatabase},
	{CanonicalName: "hbase", Category: CategoryDatabase},
	{CanonicalName: "sql", Category: CategoryDatabase},

	// Cloud
	{CanonicalName: "aws", Aliases: []string{"amazon web services"}, Category: CategoryCloud},
	{CanonicalName: "azure", Aliases: []string{"microsoft azure"}, Category: CategoryCloud},
	{CanonicalName: "google cloud", Aliases: []string{"gcp"}, Category: CategoryCloud},
	{CanonicalName: "cloudformation", Category: CategoryCloud},
	{CanonicalName: "lambda", Category: CategoryCloud},

	// DevOps
	{CanonicalName: "docker", Category: CategoryDevOps},
	{CanonicalName: "kubernetes", Aliases: []string{"k8s"}, Category: CategoryDevOps},
	{CanonicalName: "terraform", Category: CategoryDevOps},
	{CanonicalName: "ansible", Category: CategoryDevOps},
	{CanonicalName: "jenkins", Category: CategoryDevOps},
	{CanonicalName: "gitlab", Aliases: []string{"gitlab ci"}, Category: CategoryDevOps},
	{CanonicalName: "github actions", Category: CategoryDevOps},
	{CanonicalName: "circleci", Category: CategoryDevOps},
	{CanonicalName: "travis ci", Category: CategoryDevOps},
	{CanonicalName: "helm", Category: CategoryDevOps},
	{CanonicalName: "istio", Category: CategoryDevOps},
	{CanonicalName: "prometheus", Category: CategoryDevOps},
	{CanonicalName: "grafana", Category: CategoryDevOps},
	{CanonicalName: "datadog", Category: CategoryDevOps},
	{CanonicalName: "pulumi", Category: CategoryDevOps},

	// Analytics / data
	{CanonicalName: "machine learning", Aliases: []string{"ml"}, Category: CategoryAnalytics},
	{CanonicalName: "artificial intelligence", Aliases: []string{"ai"}, Category: CategoryAnalytics},
	{CanonicalName: "deep learning", Category: CategoryAnalytics},
	{CanonicalName: "nlp", Aliases: []string{"natural language processing"}, Category: CategoryAnalytics},
	{CanonicalName: "computer vision", Category: CategoryAnalytics},
	{CanonicalName: "data science", Category: CategoryAnalytics},
	{CanonicalName: "data analytics", Category: CategoryAnalytics},
	{CanonicalName: "pandas", Category: CategoryAnalytics},
	{CanonicalName: "numpy", Category: CategoryAnalytics},
	{CanonicalName: "scipy", Category: CategoryAnalytics},
	{CanonicalName: "scikit-learn", Category: CategoryAnalytics},
	{CanonicalName: "tensorflow", Category: CategoryAnalytics},
	{CanonicalName: "pytorch", Category: CategoryAnalytics},
	{CanonicalName: "keras", Category: CategoryAnalytics},
	{CanonicalName: "spark", Aliases: []string{"pyspark"}, Category: CategoryAnalytics},
	{CanonicalName: "hadoop", Category: CategoryAnalytics},
	{CanonicalName: "kafka", Category: CategoryAnalytics},
	{CanonicalName: "airflow", Category: CategoryAnalytics},
	{CanonicalName: "dbt", Category: CategoryAnalytics},
	{CanonicalName: "snowflake", Category: CategoryAnalytics},
	{CanonicalName: "databricks", Category: CategoryAnalytics},
	{CanonicalName: "tableau", Category: CategoryAnalytics},
	{CanonicalName: "power bi", Category: CategoryAnalytics},
	{CanonicalName: "looker", Category: CategoryAnalytics},
	{CanonicalName: "jupyter", Category: CategoryAnalytics},

	// Mobile
	{CanonicalName: "android", Category: CategoryMobile},
	{CanonicalName: "ios", Category: CategoryMobile},
	{CanonicalName: "react native", Category: CategoryMobile},
	{CanonicalName: "flutter", Category: CategoryMobile},
	{CanonicalName: "xamarin", Category: CategoryMobile},
	{CanonicalName: "ionic", Category: CategoryMobile},
	{CanonicalName: "cordova", Category: CategoryMobile},
	{CanonicalName: "unity", Category: CategoryMobile},
	{CanonicalName: "arkit", Category: CategoryMobile},
	{CanonicalName: "arcore", Category: CategoryMobile},

	// Tooling and platforms
	{CanonicalName: "git", Category: CategoryOther},
	{CanonicalName: "github", Category: CategoryOther},
	{CanonicalName: "bitbucket", Category: CategoryOther},
	{CanonicalName: "jira", Category: CategoryOther},
	{CanonicalName: "confluence", Category: CategoryOther},
	{CanonicalName: "figma", Category: CategoryOther},
	{CanonicalName: "postman", Category: CategoryOther},
	{CanonicalName: "swagger", Aliases: []string{"openapi"}, Category: CategoryOther},
	{CanonicalName: "linux", Category: CategoryOther},
	{CanonicalName: "ubuntu", Category: CategoryOther},
	{CanonicalName: "nginx", Category: CategoryOther},
	{CanonicalName: "tomcat", Category: CategoryOther},
}
