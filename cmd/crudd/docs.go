package main

// General API documentation header. The resource endpoints only exist at
// runtime, so the full document is generated by the server at /openapi.json;
// build with -tags=swagger to serve the UI at /docs.
//
// @title           crudd API
// @version         1.0
// @description     Auto-generated CRUD API from resource definition files.
//
// @contact.name   crudd maintainers
// @contact.url    https://github.com/your-org/crudd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
