package help

const ColdstartYAML = `# drive-digest Quick Start

secrets:
  GEMINI_API_KEY: "Gemini API key (required)"
  GOOGLE_CREDENTIALS: "service_account or authorized_user JSON, inline or a file path (required)"
  TARGET_EMAIL: "default recipient when --to is omitted"
  SMTP_SERVER: "SMTP host (smtp channel)"
  SMTP_PORT: "SMTP port, default 587"
  SMTP_USER: "SMTP login, also the From address"
  SMTP_PASSWORD: "SMTP password"

formats:
  doc: "Google Doc"
  sheet: "Google Sheet (window A1:Z1000)"
  slides: "Google Slides"
  pdf: "PDF"
  docx: "Word document"
  xlsx: "Excel file"
  pptx: "PowerPoint file"
  csv: "CSV file"
  folder: "Drive folder (use the folder command)"

commands:
  summarize_doc: |
    drive-digest summarize --link "https://docs.google.com/document/d/<id>/edit" --format doc

  summarize_to: |
    drive-digest summarize --link "<link>" --format pdf --to someone@example.com

  gmail_channel: |
    drive-digest summarize --link "<link>" --format sheet --via gmail

  smtp_override: |
    drive-digest summarize --link "<link>" --format docx --smtp-override \
      --smtp-server smtp.example.com --smtp-port 465 --smtp-user me@example.com --smtp-password "$PW"

  browse_folder: |
    drive-digest folder --link "https://drive.google.com/drive/folders/<id>"

  send_one: |
    drive-digest folder --link "<folder link>" --send <file id>

  send_all: |
    drive-digest folder --link "<folder link>" --send-all

  list_models: |
    drive-digest models

config_file:
  - "drive-digest.yaml in the working directory, or --config <path>"
  - ".env is loaded first, the YAML file second, the environment wins"
  - "keys: llm.model, llm.timeout, smtp.timeout, mail.channel, mail.subject, summary.detect_language, google.subject, google.sheet_range"

output:
  - "--format-output yaml|json|text (default yaml)"
  - "--output-file <path> saves a copy of the report"
  - "--metrics-file <path> writes Prometheus textfile metrics"

error_behavior:
  - "Extraction and summary errors are carried as text and still emailed"
  - "Exit codes: 0=sent, 1=bad link or delivery failed, 2=missing configuration"
`
