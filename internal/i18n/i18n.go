package i18n

import (
	"fmt"
	"sync"
)

// Bundle holds the user-facing strings for one language.
type Bundle struct {
	Welcome         string
	UserPrompt      string
	ExitMessage     string
	Thinking        string
	ResponseTime    string // fmt verb: seconds (float)
	ErrorMessage    string // fmt verb: error text
	ClearMessage    string
	HistoryTitle    string
	HistoryEmpty    string
	LanguageChanged string
	InvalidCommand  string
	Timeout         string
	LoadUsage       string
	LoadFailed      string // fmt verb: path
	LoadSuccess     string // fmt verbs: path, chunk count
	EmbedFailed     string
	KnowledgeClear  string
	LangUsage       string
	CachedNotice    string
}

var bundles = map[string]Bundle{
	"en": {
		Welcome:         "🤖 Welcome to Terminal-LLM! How can I assist you today? 🚀",
		UserPrompt:      "🔎 User: ",
		ExitMessage:     "👋 Goodbye! Have a great day! ✨",
		Thinking:        "Thinking, please wait...",
		ResponseTime:    "Response time: %.2f seconds",
		ErrorMessage:    "Error: %s",
		ClearMessage:    "Screen cleared.",
		HistoryTitle:    "Chat History",
		HistoryEmpty:    "No history yet.",
		LanguageChanged: "Language changed to English.",
		InvalidCommand:  "Invalid command. Type /help to see available commands.",
		Timeout:         "Request timeout, please try again later",
		LoadUsage:       "Usage: /load <file path>",
		LoadFailed:      "Could not load file, check the path: %s",
		LoadSuccess:     "Loaded %s into the knowledge base (%d chunks)",
		EmbedFailed:     "Could not add the document to the knowledge base",
		KnowledgeClear:  "Knowledge base cleared.",
		LangUsage:       "Usage: /lang <en|zh>",
		CachedNotice:    "(cached)",
	},
	"zh": {
		Welcome:         "🤖 欢迎使用 Terminal-LLM！我能为您做些什么？🚀",
		UserPrompt:      "🔎 User: ",
		ExitMessage:     "👋 再见！祝您愉快！✨",
		Thinking:        "正在思考中，请稍候...",
		ResponseTime:    "响应时间: %.2f 秒",
		ErrorMessage:    "错误: %s",
		ClearMessage:    "屏幕已清除。",
		HistoryTitle:    "聊天记录",
		HistoryEmpty:    "暂无历史记录。",
		LanguageChanged: "语言已切换为中文。",
		InvalidCommand:  "无效的命令。输入 /help 查看可用命令。",
		Timeout:         "请求超时，请稍后重试",
		LoadUsage:       "用法: /load <文件路径>",
		LoadFailed:      "无法加载文件, 请检查文件路径: %s",
		LoadSuccess:     "成功加载 %s 到知识库（%d 个文本块）",
		EmbedFailed:     "无法将文档添加到向量存储",
		KnowledgeClear:  "已清空知识库。",
		LangUsage:       "用法: /lang <en|zh>",
		CachedNotice:    "（缓存）",
	},
}

var (
	mu      sync.RWMutex
	current = "zh"
)

// Current returns the active language bundle.
func Current() Bundle {
	mu.RLock()
	defer mu.RUnlock()
	return bundles[current]
}

// CurrentCode returns the active language code.
func CurrentCode() string {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetLanguage switches the active language. Unknown codes are rejected.
func SetLanguage(code string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := bundles[code]; !ok {
		return fmt.Errorf("language %q not supported", code)
	}
	current = code
	return nil
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{"en", "zh"}
}
