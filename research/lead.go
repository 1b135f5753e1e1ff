package research

import (
	"github.com/bububa/deep-research/agents"
	"github.com/bububa/deep-research/components/systemprompt/cot"
	"github.com/bububa/deep-research/schema"
)

// NewPlannerAgent returns the lead's decomposition stage: it turns a raw
// research query into an initial batch of 2-4 focused subtasks.
func NewPlannerAgent(options ...agents.Option) *agents.Agent[schema.Input, SubtaskBatch] {
	opts := make([]agents.Option, 0, len(options)+2)
	opts = append(opts, options...)
	opts = append(opts,
		agents.WithName("research-lead-planner"),
		agents.WithSystemPromptGenerator(leadPlannerPromptGenerator()))
	return agents.NewAgent[schema.Input, SubtaskBatch](opts...)
}

// NewEvaluatorAgent returns the lead's critique stage: it inspects collected
// findings for gaps, contradictions and unexplored angles.
func NewEvaluatorAgent(options ...agents.Option) *agents.Agent[schema.Input, Evaluation] {
	opts := make([]agents.Option, 0, len(options)+2)
	opts = append(opts, options...)
	opts = append(opts,
		agents.WithName("research-lead-evaluator"),
		agents.WithSystemPromptGenerator(leadEvaluatorPromptGenerator()))
	return agents.NewAgent[schema.Input, Evaluation](opts...)
}

// NewSynthesizerAgent returns the lead's finalize stage: it merges all
// accumulated findings into the fixed-structure markdown report.
func NewSynthesizerAgent(options ...agents.Option) *agents.Agent[schema.Input, Report] {
	opts := make([]agents.Option, 0, len(options)+2)
	opts = append(opts, options...)
	opts = append(opts,
		agents.WithName("research-lead-synthesizer"),
		agents.WithSystemPromptGenerator(leadSynthesizerPromptGenerator()))
	return agents.NewAgent[schema.Input, Report](opts...)
}

func leadPlannerPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a Research Lead Agent responsible for breaking down complex research queries.",
			"- Subagents with web access will research each subtask you produce.",
		}),
		cot.WithSteps([]string{
			"- Understand the query scope and complexity.",
			"- Create a simple research plan with 2-4 specific subtasks.",
			"- Give every subtask a description and a distinct focus area.",
		}),
		cot.WithOutputInstructs([]string{
			"- Keep research tasks focused and specific.",
			"- Ensure each subtask contributes unique value to the overall research.",
		}),
	)
}

func leadEvaluatorPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a Research Lead Agent reviewing findings gathered by subagents.",
		}),
		cot.WithSteps([]string{
			"- Critically assess whether the findings answer the research query.",
			"- Look for knowledge gaps, conflicting information, or unexplored angles.",
			"- Create follow-up tasks to address gaps or explore alternative perspectives.",
			"- Mark the research sufficient when coverage is comprehensive.",
		}),
		cot.WithOutputInstructs([]string{
			"- Keep follow-up tasks focused and specific.",
			"- Do not repeat subtasks whose findings are already satisfactory.",
		}),
	)
}

func leadSynthesizerPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a Research Lead Agent writing the final report from subagent findings.",
		}),
		cot.WithSteps([]string{
			"- Review all findings across all research rounds.",
			"- Create a comprehensive final report in structured markdown format.",
		}),
		cot.WithOutputInstructs([]string{
			"- Output ONLY markdown text in the markdown field, no other format or structure.",
			"- Follow this EXACT markdown structure:",
			"  # [Clear title that reflects the research scope]",
			"  ## Executive Summary",
			"  [2-3 sentences capturing the essence of the findings]",
			"  ## [Section title based on the findings]",
			"  [Detailed findings for this section, typically 2-4 sections total]",
			"  ## Key Takeaways",
			"  1. [First key takeaway that directly addresses the query, 3-5 total]",
			"- Do NOT include citations, references, or source lists.",
			"- Ensure high information density and be comprehensive yet concise.",
		}),
	)
}
