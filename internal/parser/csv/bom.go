package csv

// utf8BOM is stripped from the first header cell if present. Some of the
// catalog exports are written by tools that prepend a byte order mark.
const utf8BOM = "\uFEFF"
