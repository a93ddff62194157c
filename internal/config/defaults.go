package config

// applyDefaults fills every unset field. Section order matters only for
// readability; sections are independent.
func applyDefaults(cfg *Config) {
	applySiteDefaults(&cfg.Site)
	applyGeminiDefaults(&cfg.Gemini)
	applyWatchDefaults(&cfg.Watch)
	applyHistoryDefaults(&cfg.History)
	applyNotifyDefaults(&cfg.Notify)
	applyLogDefaults(&cfg.Log)
}

func applySiteDefaults(s *SiteConfig) {
	if s.OutputDir == "" {
		s.OutputDir = "public"
	}
}

func applyGeminiDefaults(g *GeminiConfig) {
	if g.ContentDir == "" {
		g.ContentDir = "content"
	}
	if g.OutputDir == "" {
		g.OutputDir = "public_gemini"
	}
	if g.DateLabel == "" {
		g.DateLabel = "Data:"
	}
	if g.DateFormat == "" {
		g.DateFormat = "2006-01-02"
	}
	if g.Index.Title == "" {
		g.Index.Title = "Blog"
	}
	if g.Index.Intro == "" {
		g.Index.Intro = "Witaj w wersji Gemini mojego bloga!"
	}
	if g.Index.PostsHeading == "" {
		g.Index.PostsHeading = "Posty"
	}
	if g.Index.PostsSection == "" {
		g.Index.PostsSection = "blog"
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Addr == "" {
		w.Addr = "127.0.0.1:1414"
	}
	if w.Debounce == "" {
		w.Debounce = "500ms"
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Path == "" {
		h.Path = ".blogbuild/history.db"
	}
	if h.Keep <= 0 {
		h.Keep = 100
	}
}

func applyNotifyDefaults(n *NotifyConfig) {
	if n.Subject == "" {
		n.Subject = "blogbuild.builds"
	}
}

func applyLogDefaults(l *LogConfig) {
	if l.Level == "" {
		l.Level = string(LogLevelInfo)
	}
	if l.Format == "" {
		l.Format = string(LogFormatText)
	}
}
