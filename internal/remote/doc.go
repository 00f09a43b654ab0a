// Package remote fetches raw game files from a shared Google Drive folder.
//
// Downloader lists a folder page by page, keeps the .csv entries and copies
// them sequentially into a local directory. With WithRecursive the sub-folder
// tree is mirrored, so a layout such as "Week 3/Hammers @ Flyers/Points.csv"
// keeps the path segments the metadata extractor relies on.
//
// Requests are paced by a token-bucket limiter configured from
// remote.requests_per_second and remote.burst.
package remote
