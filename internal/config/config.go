// Package config loads and validates the engine's configuration: worker
// pool sizing, work-queue dispatch, checkpoint storage, and logging,
// adapted from the teacher's Config/Performance/Logging section split onto
// this spec's Optimizer/Dispatch/Logging/Checkpoint sections.
package config

// OptimizerConfig holds the strategy defaults of spec.md §4.1: acceptance
// caps and filter_above. 0 means unlimited in every field, matching the
// strategy package's own convention.
type OptimizerConfig struct {
	GroupPrefix              string  `yaml:"group_prefix" env:"BESMARTS_GROUP_PREFIX" default:"p"`
	MacroAcceptMaxTotal      int     `yaml:"macro_accept_max_total" env:"BESMARTS_MACRO_ACCEPT_MAX_TOTAL" default:"0"`
	MacroAcceptMaxPerCluster int     `yaml:"macro_accept_max_per_cluster" env:"BESMARTS_MACRO_ACCEPT_MAX_PER_CLUSTER" default:"0"`
	MicroAcceptMaxTotal      int     `yaml:"micro_accept_max_total" env:"BESMARTS_MICRO_ACCEPT_MAX_TOTAL" default:"0"`
	MicroAcceptMaxPerCluster int     `yaml:"micro_accept_max_per_cluster" env:"BESMARTS_MICRO_ACCEPT_MAX_PER_CLUSTER" default:"0"`
	FilterAbove              float64         `yaml:"filter_above" env:"BESMARTS_FILTER_ABOVE" default:"0"`
	Objective                ObjectiveConfig `yaml:"objective"`
}

// ObjectiveConfig selects the scoring function of spec.md §4.7. The zero
// value (Kind == "" or "variance") keeps the built-in sum-of-variance
// objective; Kind == "expr" switches to a user-supplied govaluate
// expression per internal/objective.ExprObjective, letting an operator
// plug in a custom objective without a code change.
type ObjectiveConfig struct {
	Kind       string `yaml:"kind" env:"BESMARTS_OBJECTIVE_KIND" default:"variance"`
	SingleExpr string `yaml:"single_expr" env:"BESMARTS_OBJECTIVE_SINGLE_EXPR" default:""`
	SplitExpr  string `yaml:"split_expr" env:"BESMARTS_OBJECTIVE_SPLIT_EXPR" default:""`
	MergeExpr  string `yaml:"merge_expr" env:"BESMARTS_OBJECTIVE_MERGE_EXPR" default:""`
	Discrete   bool   `yaml:"discrete" env:"BESMARTS_OBJECTIVE_DISCRETE" default:"false"`
}

// DispatchConfig holds the work-queue/worker-pool sizing of spec.md §5.
// AuthSecretsPath is optional: when set, the NATS bearer token is resolved
// through internal/secrets at startup instead of living in plain config.
type DispatchConfig struct {
	WorkerCount         int    `yaml:"worker_count" env:"BESMARTS_WORKERS" default:"0"`
	Backend             string `yaml:"backend" env:"BESMARTS_DISPATCH_BACKEND" default:"local"`
	ServerAddress       string `yaml:"server_address" env:"BESMARTS_NATS_ADDRESS" default:""`
	Subject             string `yaml:"subject" env:"BESMARTS_NATS_SUBJECT" default:"besmarts.candidates"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds" env:"BESMARTS_POLL_INTERVAL_SECONDS" default:"30"`
	DecodeBatchSize     int    `yaml:"decode_batch_size" env:"BESMARTS_DECODE_BATCH_SIZE" default:"10000"`
	AuthSecretsPath     string `yaml:"auth_secrets_path" env:"BESMARTS_NATS_AUTH_SECRETS_PATH" default:""`
}

// LoggingConfig controls internal/log's verbosity and coloring.
type LoggingConfig struct {
	Level string `yaml:"level" env:"BESMARTS_LOG_LEVEL" default:"info"`
	Color bool   `yaml:"color" env:"BESMARTS_LOG_COLOR" default:"true"`
}

// CheckpointConfig selects and configures internal/checkpoint's storage.
// S3SecretsPath is optional: when set, the S3 access/secret key pair is
// resolved through internal/secrets instead of the aws-sdk-go default
// provider chain.
type CheckpointConfig struct {
	Backend       string `yaml:"backend" env:"BESMARTS_CHECKPOINT_BACKEND" default:"file"`
	Path          string `yaml:"path" env:"BESMARTS_CHECKPOINT_PATH" default:"."`
	Retain        int    `yaml:"retain" env:"BESMARTS_CHECKPOINT_RETAIN" default:"3"`
	Incremental   bool   `yaml:"incremental" env:"BESMARTS_CHECKPOINT_INCREMENTAL" default:"false"`
	S3Bucket      string `yaml:"s3_bucket" env:"BESMARTS_S3_BUCKET" default:""`
	S3Region      string `yaml:"s3_region" env:"BESMARTS_S3_REGION" default:"us-east-1"`
	S3Prefix      string `yaml:"s3_prefix" env:"BESMARTS_S3_PREFIX" default:""`
	S3SecretsPath string `yaml:"s3_secrets_path" env:"BESMARTS_S3_SECRETS_PATH" default:""`
}

// SecretsConfig names the Vault connection used to resolve the credentials
// named by CheckpointConfig.S3SecretsPath and DispatchConfig.AuthSecretsPath.
// It is only consulted when at least one of those paths is set; Token is
// expected to come from the environment rather than a committed YAML file.
type SecretsConfig struct {
	Address string `yaml:"address" env:"BESMARTS_VAULT_ADDRESS" default:""`
	Token   string `yaml:"token" env:"BESMARTS_VAULT_TOKEN" default:""`
	Mount   string `yaml:"mount" env:"BESMARTS_VAULT_MOUNT" default:"secret"`
}

// Config is the top-level configuration document.
type Config struct {
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Logging    LoggingConfig    `yaml:"logging"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Secrets    SecretsConfig    `yaml:"secrets"`
}
