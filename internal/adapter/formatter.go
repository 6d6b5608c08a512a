package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
)

// ResponseFormatter renders bot responses as plain KakaoTalk text.
type ResponseFormatter struct {
	prefix string
}

func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

func categoryIcon(category domain.Category) string {
	if category == domain.CategoryKiller {
		return "🔪"
	}
	return "🏃"
}

func categoryLabel(category domain.Category) string {
	if category == domain.CategoryKiller {
		return "Killer"
	}
	return "Survivor"
}

// FormatPerkDetail renders a single perk. translated may be empty when the
// user did not ask for a translation.
func (f *ResponseFormatter) FormatPerkDetail(perk *domain.Perk, translated string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", categoryIcon(perk.Category), perk.Name))
	sb.WriteString(fmt.Sprintf("📂 %s", categoryLabel(perk.Category)))
	if perk.CharacterName != "" {
		sb.WriteString(fmt.Sprintf(" · %s", perk.CharacterName))
	}
	sb.WriteString("\n\n")
	sb.WriteString(perk.Description)

	if translated != "" {
		sb.WriteString("\n\n📖 Bản dịch:\n")
		sb.WriteString(translated)
	}

	sb.WriteString("\n\n🔗 Nguồn: Dead by Daylight Wiki")
	return sb.String()
}

// FormatPerkList renders multiple matches as a pick list.
func (f *ResponseFormatter) FormatPerkList(perks []*domain.Perk, query string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 Tìm thấy %d perk cho \"%s\"\n\n", len(perks), query))

	for i, perk := range perks {
		sb.WriteString(fmt.Sprintf("%d. %s %s", i+1, categoryIcon(perk.Category), perk.Name))
		if perk.CharacterName != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", perk.CharacterName))
		}
		if i < len(perks)-1 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n\n💡 Gõ %sperk <tên đầy đủ> để xem chi tiết", f.prefix))
	return sb.String()
}

func (f *ResponseFormatter) FormatNoResults(query string) string {
	return fmt.Sprintf("❌ Không tìm thấy perk nào cho \"%s\".\n💡 Thử tên tiếng Anh của perk hoặc tên nhân vật.", query)
}

func (f *ResponseFormatter) FormatPerkUsage() string {
	return fmt.Sprintf("💡 Cách dùng: %sperk <tên perk> [killer|survivor] [dịch]", f.prefix)
}

// FormatUpdateResult summarizes a forced refresh plus bulk translation run.
func (f *ResponseFormatter) FormatUpdateResult(survivors, killers int, stats *domain.TranslationStats) string {
	var sb strings.Builder
	sb.WriteString("✅ Cập nhật dữ liệu perk thành công!\n\n")
	sb.WriteString(fmt.Sprintf("🏃 Survivor: %d perk\n", survivors))
	sb.WriteString(fmt.Sprintf("🔪 Killer: %d perk", killers))

	if stats != nil {
		sb.WriteString(fmt.Sprintf("\n\n📖 Bản dịch: %d mới, %d giữ nguyên", stats.Translated, stats.Skipped))
		if stats.Failed > 0 {
			sb.WriteString(fmt.Sprintf(", %d lỗi", stats.Failed))
		}
	}
	return sb.String()
}

func (f *ResponseFormatter) FormatUpdateFailed() string {
	return "❌ Không thể cập nhật dữ liệu từ wiki. Vui lòng thử lại sau."
}

// FormatStats renders dataset sizes and translation store metadata.
func (f *ResponseFormatter) FormatStats(counts map[domain.Category]int, meta *domain.TranslationMetadata) string {
	var sb strings.Builder
	sb.WriteString("📊 Thống kê dữ liệu\n\n")
	sb.WriteString(fmt.Sprintf("🏃 Survivor: %d perk\n", counts[domain.CategorySurvivor]))
	sb.WriteString(fmt.Sprintf("🔪 Killer: %d perk", counts[domain.CategoryKiller]))

	if meta != nil {
		sb.WriteString(fmt.Sprintf("\n\n📖 Bản dịch: %d mục (%s)", meta.TotalEntries, meta.Language))
		if !meta.LastUpdated.IsZero() {
			sb.WriteString(fmt.Sprintf("\n🕒 Cập nhật lần cuối: %s", meta.LastUpdated.Format("2006-01-02 15:04")))
		}
	}
	return sb.String()
}

func (f *ResponseFormatter) FormatHelp() string {
	var sb strings.Builder
	sb.WriteString("🎮 DBD Perk Bot\n\n")
	sb.WriteString(fmt.Sprintf("%sperk <tên> — tìm perk theo tên hoặc nhân vật\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%sperk <tên> killer — chỉ tìm perk của Killer\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%sperk <tên> dịch — kèm bản dịch tiếng Việt\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%supdate — tải lại dữ liệu từ wiki\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%sstats — thống kê dữ liệu\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%shelp — hiển thị trợ giúp này", f.prefix))
	return sb.String()
}

func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("⚠️ %s", message)
}
