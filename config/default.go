package config

// DefaultConfigYAML is the embedded fallback configuration. Every key can
// be overridden by an external config.yaml or BUDGETBUDDY_* environment
// variables.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "localhost"
  port: "3306"
  username: "budgetbuddy"
  password: "budgetbuddy"
  dbname: "budgetbuddy"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 587
  username: ""
  password: ""
  from: "BudgetBuddy <noreply@example.com>"

ml:
  base_url: "http://localhost:8000"
  timeout_seconds: 30

reminder:
  enabled: false
  check_interval_minutes: 60
  due_soon_days: 3
`)
