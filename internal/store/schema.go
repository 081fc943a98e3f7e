package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ProgressColumns holds the columns for the "progress" table.
	ProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "kind", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "step", Type: field.TypeInt},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProgressTable holds the in-progress assessment of each kind and mode.
	ProgressTable = &schema.Table{
		Name:       "progress",
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "progress_kind_mode",
				Unique:  true,
				Columns: []*schema.Column{ProgressColumns[1], ProgressColumns[2]},
			},
		},
	}

	// ResultsColumns holds the columns for the "results" table.
	ResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "percentage", Type: field.TypeInt},
		{Name: "rating", Type: field.TypeString},
		{Name: "outcome", Type: field.TypeJSON},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// ResultsTable is the history of completed assessments.
	ResultsTable = &schema.Table{
		Name:       "results",
		Columns:    ResultsColumns,
		PrimaryKey: []*schema.Column{ResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "results_kind_completed_at",
				Unique:  false,
				Columns: []*schema.Column{ResultsColumns[2], ResultsColumns[7]},
			},
		},
	}

	// AssessmentEventsColumns holds the columns for the "assessment_events" table.
	AssessmentEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "step", Type: field.TypeInt, Default: 0},
		{Name: "question_id", Type: field.TypeString, Default: ""},
		{Name: "value", Type: field.TypeString, Default: ""},
	}
	// AssessmentEventsTable is the append-only audit trail of sessions.
	AssessmentEventsTable = &schema.Table{
		Name:       "assessment_events",
		Columns:    AssessmentEventsColumns,
		PrimaryKey: []*schema.Column{AssessmentEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "assessmentevent_assessment_id",
				Unique:  false,
				Columns: []*schema.Column{AssessmentEventsColumns[3]},
			},
		},
	}

	// LlmRequestsColumns holds the columns for the "llm_requests" table.
	LlmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestsTable records every call made to an LLM provider.
	LlmRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LlmRequestsColumns,
		PrimaryKey: []*schema.Column{LlmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequest_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProgressTable,
		ResultsTable,
		AssessmentEventsTable,
		LlmRequestsTable,
	}
)
