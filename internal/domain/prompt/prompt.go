// Package prompt holds the system prompts and user-prompt builders for the
// document generation endpoints. Prompts instruct the model to answer with
// bare JSON; the llm adapter still defends against fenced output.
package prompt

import (
	"fmt"
	"strings"
)

// System prompts, one per document kind.
const (
	RequirementsSystem = `You are an assistant that writes software project requirements.
Analyze the project overview and the existing requirements, then produce only
new, non-overlapping requirements. Mix FUNCTIONAL and PERFORMANCE types.
Respond with a pure JSON array and nothing else.`

	SummarySystem = `You are an assistant that summarizes software project plans.
Produce a structured project summary covering title, category, target users,
core features, technology stack and problem solving.
Respond with a pure JSON object and nothing else.`

	ERDSystem = `You are an assistant that designs entity-relationship diagrams.
Derive tables, attributes, key constraints and relations from the project
summary and requirements.
Respond with a pure JSON object and nothing else.`

	APISpecSystem = `You are an assistant that designs REST API specifications.
Derive endpoints with method, path, request and response shapes from the
project summary and requirements.
Respond with a pure JSON object and nothing else.`

	RecommendSystem = `You are an assistant that analyzes project progress and
recommends the next actions. For each recommendation estimate importance and
a start/end date. Respond with a pure JSON object holding workspaceId,
categoryId, featureId and recommendedActions, and nothing else.`

	TasksSystem = `You are an assistant that drafts a project task breakdown.
Derive categories, features and actions from the project summary.
Respond with a pure JSON object and nothing else.`
)

// Requirements builds the user prompt for requirement generation.
func Requirements(overview, existing string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project overview:\n%s\n\n", overview)
	fmt.Fprintf(&b, "Existing requirements:\n%s\n\n", existing)
	fmt.Fprintf(&b, "Generate exactly %d additional requirements that do not repeat the existing ones.\n", count)
	b.WriteString(`Each array element must look like {"requirementType": "FUNCTIONAL"|"PERFORMANCE", "content": "..."}.` + "\n")
	b.WriteString("Order functional requirements before performance requirements.\n")
	return b.String()
}

// Summary builds the user prompt for project summary generation.
func Summary(overview, requirements string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project overview:\n%s\n\n", overview)
	fmt.Fprintf(&b, "Confirmed requirements:\n%s\n\n", requirements)
	b.WriteString("Summarize the project as a JSON object with the keys ")
	b.WriteString(`"title", "category", "target_users", "core_features", "technology_stack" and "problem_solving".` + "\n")
	return b.String()
}

// ERD builds the user prompt for ERD generation.
func ERD(overview, requirements, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project overview:\n%s\n\n", overview)
	fmt.Fprintf(&b, "Requirements:\n%s\n\n", requirements)
	fmt.Fprintf(&b, "Project summary:\n%s\n\n", summary)
	b.WriteString(`Design the ERD as {"erdTables": [{"name", "attributes": [{"name", "dataType", "isPrimaryKey", "isForeignKey", "isNullable"}]}], "erdRelationships": [...]}.` + "\n")
	return b.String()
}

// APISpec builds the user prompt for API specification generation.
func APISpec(overview, requirements, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project overview:\n%s\n\n", overview)
	fmt.Fprintf(&b, "Requirements:\n%s\n\n", requirements)
	fmt.Fprintf(&b, "Project summary:\n%s\n\n", summary)
	b.WriteString(`Design the API spec as {"apis": [{"title", "tag", "path", "http_method", "request": [...], "response": [...]}]}.` + "\n")
	return b.String()
}

// Recommend builds the user prompt for next-action recommendation.
func Recommend(projectList string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current project task list:\n%s\n\n", projectList)
	b.WriteString("Recommend the next actions to work on, highest priority first.\n")
	b.WriteString(`Each recommended action must look like {"name", "importance", "startDate", "endDate"}.` + "\n")
	return b.String()
}

// Tasks builds the user prompt for task draft generation.
func Tasks(summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project summary:\n%s\n\n", summary)
	b.WriteString(`Draft the task breakdown as {"workspaceId", "project_summary", "categories": [{"name", "features": [{"name", "actions": [...]}]}]}.` + "\n")
	return b.String()
}
