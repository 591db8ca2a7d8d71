package api

// @title Learnbase
// @version v1.0.0
// @description Learning-notes knowledge base: markdown notes grouped by category, with tags, search and image uploads.

// @license.name MIT

// @host localhost:5000
// @BasePath /
// @schemes http
