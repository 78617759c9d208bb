package filterquery

import "strings"

// TokenKind - распознанный вид токена. Каждому правилу грамматики
// соответствует ровно один вариант, всё остальное попадает в TokenUnknown.
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenSearch
	TokenToday
	TokenOverdue
	TokenNoDate
	TokenPriority
	TokenLabel
	TokenProject
	TokenRecurring
	TokenSubtask
	TokenNotSubtask
)

var kindNames = map[TokenKind]string{
	TokenUnknown:    "unknown",
	TokenSearch:     "search",
	TokenToday:      "today",
	TokenOverdue:    "overdue",
	TokenNoDate:     "no_date",
	TokenPriority:   "priority",
	TokenLabel:      "label",
	TokenProject:    "project",
	TokenRecurring:  "recurring",
	TokenSubtask:    "subtask",
	TokenNotSubtask: "not_subtask",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Token struct {
	Kind  TokenKind
	Value string // поисковая строка, приоритет, метка или проект
	Raw   string
}

const searchPrefix = "search:"

// Tokenize делит запрос по пробелам и классифицирует каждый токен.
// Порядок проверок фиксирован и совпадает с таблицей грамматики.
// Ошибок не бывает: нераспознанные токены получают TokenUnknown.
func Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))

	for i := 0; i < len(words); i++ {
		raw := words[i]
		word := strings.ToLower(raw)

		switch {
		case strings.HasPrefix(word, searchPrefix):
			tokens = append(tokens, Token{Kind: TokenSearch, Value: raw[len(searchPrefix):], Raw: raw})
		case word == "today":
			tokens = append(tokens, Token{Kind: TokenToday, Raw: raw})
		case word == "overdue":
			tokens = append(tokens, Token{Kind: TokenOverdue, Raw: raw})
		case word == "no" && i+1 < len(words) && strings.ToLower(words[i+1]) == "date":
			tokens = append(tokens, Token{Kind: TokenNoDate, Raw: raw + " " + words[i+1]})
			i++
		case isPriority(word):
			tokens = append(tokens, Token{Kind: TokenPriority, Value: word, Raw: raw})
		case strings.HasPrefix(word, "@"):
			tokens = append(tokens, Token{Kind: TokenLabel, Value: word[1:], Raw: raw})
		case strings.HasPrefix(word, "#"):
			tokens = append(tokens, Token{Kind: TokenProject, Value: word[1:], Raw: raw})
		case word == "recurring":
			tokens = append(tokens, Token{Kind: TokenRecurring, Raw: raw})
		case word == "subtask":
			tokens = append(tokens, Token{Kind: TokenSubtask, Raw: raw})
		case word == "!subtask":
			tokens = append(tokens, Token{Kind: TokenNotSubtask, Raw: raw})
		default:
			tokens = append(tokens, Token{Kind: TokenUnknown, Raw: raw})
		}
	}

	return tokens
}

func isPriority(word string) bool {
	switch word {
	case "p1", "p2", "p3", "p4":
		return true
	}
	return false
}
