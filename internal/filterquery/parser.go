package filterquery

import "todone/internal/models/task"

type DateFilter struct {
	Today   bool `json:"today,omitempty"`
	Overdue bool `json:"overdue,omitempty"`
	NoDate  bool `json:"no_date,omitempty"`
}

func (d DateFilter) isSet() bool {
	return d.Today || d.Overdue || d.NoDate
}

// Query - плоский набор независимых условий, которые объединяются через AND.
// Дерева выражений нет: операторы & и | в запросе игнорируются.
type Query struct {
	Search     string          `json:"search,omitempty"`
	Priorities []task.Priority `json:"priorities,omitempty"`
	Labels     []string        `json:"labels,omitempty"`
	Projects   []string        `json:"projects,omitempty"`
	Dates      DateFilter      `json:"dates"`
	Recurring  *bool           `json:"recurring,omitempty"`
	// IsSubtask проверяет наличие родительской задачи
	IsSubtask *bool `json:"is_subtask,omitempty"`
	// Completed грамматикой не выставляется, только из кода
	Completed *bool `json:"completed,omitempty"`
}

// IsEmpty - true, если ни одно условие не задано и фильтр пропускает всё
func (q Query) IsEmpty() bool {
	return q.Search == "" &&
		len(q.Priorities) == 0 &&
		len(q.Labels) == 0 &&
		len(q.Projects) == 0 &&
		!q.Dates.isSet() &&
		q.Recurring == nil &&
		q.IsSubtask == nil &&
		q.Completed == nil
}

// Parse собирает Query из текста запроса. Никогда не возвращает ошибку.
func Parse(text string) Query {
	var q Query

	for _, tok := range Tokenize(text) {
		switch tok.Kind {
		case TokenSearch:
			q.Search = tok.Value
		case TokenToday:
			q.Dates.Today = true
		case TokenOverdue:
			q.Dates.Overdue = true
		case TokenNoDate:
			q.Dates.NoDate = true
		case TokenPriority:
			q.Priorities = append(q.Priorities, task.Priority(tok.Value))
		case TokenLabel:
			q.Labels = append(q.Labels, tok.Value)
		case TokenProject:
			q.Projects = append(q.Projects, tok.Value)
		case TokenRecurring:
			q.Recurring = boolPtr(true)
		case TokenSubtask:
			q.IsSubtask = boolPtr(true)
		case TokenNotSubtask:
			q.IsSubtask = boolPtr(false)
		}
	}

	return q
}

func boolPtr(v bool) *bool {
	return &v
}
