package adapter

import (
	"strings"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/iris"
)

// MessageAdapter converts raw KakaoTalk messages into bot commands.
type MessageAdapter struct {
	prefix string
}

func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand is the routing decision for one incoming message.
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

var (
	perkAliases   = map[string]bool{"perk": true, "p": true, "tim": true, "tìm": true}
	updateAliases = map[string]bool{"update": true, "capnhat": true, "cậpnhật": true}
	statsAliases  = map[string]bool{"stats": true, "thongke": true, "thốngkê": true}
	helpAliases   = map[string]bool{"help": true, "trogiup": true, "trợgiúp": true}

	categoryAliases = map[string]domain.Category{
		"killer":   domain.CategoryKiller,
		"k":        domain.CategoryKiller,
		"satthu":   domain.CategoryKiller,
		"survivor": domain.CategorySurvivor,
		"surv":     domain.CategorySurvivor,
		"s":        domain.CategorySurvivor,
	}

	translateAliases = map[string]bool{"dich": true, "dịch": true, "translate": true, "vi": true}
)

// ParseMessage parses a KakaoTalk message into a command. Messages without the
// bot prefix come back as CommandUnknown and are ignored upstream.
func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil || message.Msg == "" {
		return ma.unknown("")
	}

	text := strings.TrimSpace(message.Msg)
	if !strings.HasPrefix(text, ma.prefix) {
		return ma.unknown(text)
	}

	parts := strings.Fields(strings.TrimSpace(text[len(ma.prefix):]))
	if len(parts) == 0 {
		return ma.unknown(text)
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case perkAliases[command]:
		return &ParsedCommand{
			Type:       domain.CommandPerk,
			Params:     parsePerkArgs(args),
			RawMessage: text,
		}
	case updateAliases[command]:
		return &ParsedCommand{
			Type:       domain.CommandUpdate,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	case statsAliases[command]:
		return &ParsedCommand{
			Type:       domain.CommandStats,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	case helpAliases[command]:
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.unknown(text)
}

// parsePerkArgs separates the search query from trailing category and
// translation flags. Flags may appear anywhere among the arguments.
func parsePerkArgs(args []string) map[string]any {
	params := map[string]any{
		"category":  domain.CategoryAll,
		"translate": false,
	}

	var queryTerms []string
	for _, arg := range args {
		lower := strings.ToLower(arg)
		if category, ok := categoryAliases[lower]; ok {
			params["category"] = category
			continue
		}
		if translateAliases[lower] {
			params["translate"] = true
			continue
		}
		queryTerms = append(queryTerms, arg)
	}

	if len(queryTerms) > 0 {
		params["query"] = strings.Join(queryTerms, " ")
	}
	return params
}

func (ma *MessageAdapter) unknown(raw string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: raw,
	}
}
