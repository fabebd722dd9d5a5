// Package model defines the data structures used throughout the HOM Pulse console.
package model

// Config holds the console settings persisted in the JSON config file.
type Config struct {
	APIBaseURL        string `json:"api_base_url"`
	RequestTimeout    string `json:"request_timeout"`
	RequestsPerSecond int    `json:"requests_per_second"`
	RequestBurst      int    `json:"request_burst"`
	DatabaseDir       string `json:"database_dir"`
	DatabaseFile      string `json:"database_file"`
	LogFolder         string `json:"log_folder"`
	CommandLog        string `json:"command_log"`
	ErrorLog          string `json:"error_log"`
	InfoLog           string `json:"info_log"`
	LogLevel          string `json:"log_level"`
	HistoryFile       string `json:"history_file"`
	HierarchyFile     string `json:"hierarchy_file"`
	MasterCacheTTL    string `json:"master_cache_ttl"`
	SessionTimeout    string `json:"session_timeout"`
	UseColor          bool   `json:"use_color"`
	AdminRoleID       int    `json:"admin_role_id"`
	PartnerPathPrefix string `json:"partner_path_prefix"`
}
