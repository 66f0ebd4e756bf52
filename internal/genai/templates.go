// internal/genai/templates.go
package genai

// Instruction template ids. The instruction text rides along with the
// request so the generation service stays stateless.
const (
	TemplateRouter  = "router"
	TemplatePlanner = "planner"
	TemplateSQL     = "text-to-sql"
	TemplateAnswer  = "answer"
)

// Instructions maps a template id to its instruction text.
var Instructions = map[string]string{
	TemplateRouter: `Classify the question.
RULES:
1. 'doc_only': questions about policy, returns, days, definitions.
2. 'sql_only': questions requiring calculation (SUM, COUNT, AVG) on the database.
3. 'hybrid': specific data queries filtered by a named event (e.g. "Summer 1997").
Output field 'classification': doc_only, sql_only, or hybrid.`,

	TemplatePlanner: `Read the docs and the question. Extract specific SQL constraints.
Examples:
- "Summer 1997" -> "OrderDate BETWEEN '1997-06-01' AND '1997-06-30'"
- "Beverages" -> "CategoryName = 'Beverages'"
Translate named events into concrete range predicates and named KPIs into
concrete formula fragments. Never substitute a present-day date for a
document-specified one.
Output field 'constraints': SQL snippets (dates, IDs, formulas).`,

	TemplateSQL: `You are a SQL expert. Your only task is to generate a valid SQL query
that answers the question based on the schema and context.
Do NOT invent or assume any final numeric values.
Only produce the SQL query string.
Output field 'sql_query': valid query string; no hardcoded answers or values.`,

	TemplateAnswer: `Answer the question based on the provided query result and documents.
- If format_hint is 'int' or 'float', return ONLY the number in 'final_answer'.
- If format_hint is 'json' or 'list', ensure valid JSON syntax.
Output fields: 'final_answer' (precise answer matching format_hint),
'explanation' (brief), 'citations' (tables/docs used).`,
}

// NewRequest builds a Request for a known template id.
func NewRequest(template string, fields map[string]string) *Request {
	return &Request{
		Template:    template,
		Instruction: Instructions[template],
		Fields:      fields,
	}
}
