package config

import "fmt"

// Validate rejects configurations the engine cannot honor, mirroring the
// teacher's own config_validator pass: cheap, exhaustive field checks run
// once at startup rather than discovered mid-run.
func Validate(cfg Config) error {
	if cfg.Dispatch.Backend != "local" && cfg.Dispatch.Backend != "nats" {
		return fmt.Errorf("config: dispatch.backend must be \"local\" or \"nats\", got %q", cfg.Dispatch.Backend)
	}
	if cfg.Dispatch.Backend == "nats" && cfg.Dispatch.ServerAddress == "" {
		return fmt.Errorf("config: dispatch.server_address is required when dispatch.backend is \"nats\"")
	}
	if cfg.Dispatch.PollIntervalSeconds <= 0 {
		return fmt.Errorf("config: dispatch.poll_interval_seconds must be positive, got %d", cfg.Dispatch.PollIntervalSeconds)
	}
	if cfg.Dispatch.DecodeBatchSize <= 0 {
		return fmt.Errorf("config: dispatch.decode_batch_size must be positive, got %d", cfg.Dispatch.DecodeBatchSize)
	}
	if cfg.Checkpoint.Backend != "file" && cfg.Checkpoint.Backend != "s3" {
		return fmt.Errorf("config: checkpoint.backend must be \"file\" or \"s3\", got %q", cfg.Checkpoint.Backend)
	}
	if cfg.Checkpoint.Backend == "s3" && cfg.Checkpoint.S3Bucket == "" {
		return fmt.Errorf("config: checkpoint.s3_bucket is required when checkpoint.backend is \"s3\"")
	}
	if cfg.Checkpoint.Retain < 0 {
		return fmt.Errorf("config: checkpoint.retain must be >= 0, got %d", cfg.Checkpoint.Retain)
	}
	if cfg.Checkpoint.S3SecretsPath != "" && cfg.Secrets.Address == "" {
		return fmt.Errorf("config: secrets.address is required when checkpoint.s3_secrets_path is set")
	}
	if cfg.Dispatch.AuthSecretsPath != "" && cfg.Secrets.Address == "" {
		return fmt.Errorf("config: secrets.address is required when dispatch.auth_secrets_path is set")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level must be one of debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Optimizer.GroupPrefix == "" {
		return fmt.Errorf("config: optimizer.group_prefix must not be empty")
	}
	if cfg.Optimizer.Objective.Kind != "variance" && cfg.Optimizer.Objective.Kind != "expr" {
		return fmt.Errorf("config: optimizer.objective.kind must be \"variance\" or \"expr\", got %q", cfg.Optimizer.Objective.Kind)
	}
	if cfg.Optimizer.Objective.Kind == "expr" {
		if cfg.Optimizer.Objective.SingleExpr == "" || cfg.Optimizer.Objective.SplitExpr == "" || cfg.Optimizer.Objective.MergeExpr == "" {
			return fmt.Errorf("config: optimizer.objective.{single,split,merge}_expr are all required when kind is \"expr\"")
		}
	}
	return nil
}
