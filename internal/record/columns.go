package record

// Well-known column names in an episode record. Configuration fields use
// dotted paths under the agent_args and env_args namespaces; per-step
// statistics live under stats.
const (
	ColTask         = "env_args.task_name"
	ColReward       = "cum_reward"
	ColRawReward    = "cum_raw_reward"
	ColSteps        = "n_steps"
	ColTruncated    = "truncated"
	ColTerminated   = "terminated"
	ColErrMsg       = "err_msg"
	ColStackTrace   = "stack_trace"
	ColExpDir       = "exp_dir"
	ColExpDate      = "exp_date"
	ColTaskCategory = "task_category"
	ColAgentName    = "agent_args.agent_name"

	AgentPrefix = "agent_args."
	FlagsPrefix = "agent_args.flags."
	StatsPrefix = "stats."
)
