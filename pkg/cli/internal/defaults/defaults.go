package defaults

// Used when neither flags nor GITHUB_REPOSITORY name a repository.
const (
	Owner   = "jitenkr2030"
	Repo    = "Desktop-Server-School-Platform"
	Product = "INR99 Academy"
)

const (
	TokenEnv      = "GITHUB_TOKEN"
	TokenEnvAlt   = "PAT"
	RepositoryEnv = "GITHUB_REPOSITORY"
)
