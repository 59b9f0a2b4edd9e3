package lexicon

// Synonyms maps a normalized skill to the terms that imply it.
var Synonyms = map[string][]string{
	"javascript": {"js", "node", "nodejs", "node js", "react", "vue", "angular", "typescript", "ecmascript"},
	"typescript": {"ts", "tsx"},
	"react":      {"reactjs", "react js", "jsx", "next js", "nextjs", "react native"},
	"vue":        {"vuejs", "vue js", "nuxt"},
	"node":       {"nodejs", "node js", "express", "nestjs"},
	"python":     {"py", "django", "flask", "fastapi", "pandas", "numpy", "jupyter"},
	"go":         {"golang"},
	"rust":       {"cargo", "tokio"},
	"java":       {"spring", "spring boot", "jvm", "maven", "gradle"},
	"kotlin":     {"ktor"},
	"c#":         {"csharp", "dotnet", "net core", "asp net"},
	"c++":        {"cpp", "cplusplus"},
	"ruby":       {"rails", "ruby on rails"},
	"php":        {"laravel", "symfony"},
	"sql":        {"postgres", "postgresql", "mysql", "sqlite", "mariadb", "tsql", "plpgsql"},
	"postgresql": {"postgres", "psql", "pgx"},
	"nosql":      {"mongodb", "mongo", "cassandra", "dynamodb", "couchdb"},
	"redis":      {"valkey"},
	"docker":     {"dockerfile", "container", "containers", "docker compose", "podman"},
	"kubernetes": {"k8s", "kubectl", "helm", "kustomize", "openshift", "operator"},
	"terraform":  {"hcl", "opentofu", "terragrunt"},
	"aws":        {"amazon web services", "ec2", "s3", "lambda", "cloudformation", "eks"},
	"gcp":        {"google cloud", "gke", "bigquery", "cloud run"},
	"azure":      {"aks"},
	"ci/cd":      {"ci", "cd", "github actions", "gitlab ci", "jenkins", "circleci"},
	"machine learning": {
		"ml", "pytorch", "tensorflow", "scikit learn", "sklearn", "keras", "deep learning", "xgboost",
	},
	"graphql": {"apollo"},
	"grpc":    {"protobuf", "protocol buffers"},
	"linux":   {"bash", "shell", "systemd"},
}

// DomainKeywords maps a normalized domain to terms that suggest work in it.
var DomainKeywords = map[string][]string{
	"fintech": {
		"payment", "payments", "bank", "banking", "ledger", "finance", "financial", "trading",
		"wallet", "crypto", "blockchain", "invoice", "billing", "stripe", "fx", "kyc", "lending",
	},
	"healthcare": {"health", "medical", "clinic", "patient", "ehr", "fhir", "hl7", "hospital", "dicom"},
	"e-commerce": {"shop", "store", "cart", "checkout", "ecommerce", "commerce", "catalog", "marketplace", "orders"},
	"gaming":     {"game", "games", "unity", "unreal", "godot", "engine", "multiplayer", "sprite"},
	"devtools":   {"cli", "linter", "compiler", "debugger", "ide", "plugin", "sdk", "tooling", "lsp"},
	"machine learning": {
		"ml", "model", "models", "training", "inference", "neural", "dataset", "pytorch", "tensorflow", "llm",
	},
	"cloud infrastructure": {
		"kubernetes", "k8s", "terraform", "infra", "infrastructure", "cloud", "aws", "gcp", "azure",
		"helm", "operator", "cluster", "devops",
	},
	"security": {"security", "auth", "oauth", "crypto", "vulnerability", "scanner", "pentest", "firewall", "tls"},
	"data engineering": {"etl", "pipeline", "warehouse", "spark", "airflow", "kafka", "dbt", "streaming", "lake"},
}
