// Package playlist parses extended M3U documents from IPTV providers and
// reshapes them: grouped JSON exports for building channel directories, and
// per-group playlist files for players that choke on full provider dumps.
package playlist
