package app_info

// NAME the application name used for paths and output
const NAME = "portwatch"

// VERSION the current application version
const VERSION = "v0.1.0"
