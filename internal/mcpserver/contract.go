package mcpserver

// ContentFormatContract describes the content file format that LLM
// consumers should follow when writing pages for a project.
const ContentFormatContract = `# Skein Content Format Contract

Every Markdown page of a project MUST follow this structure.

## Structure

` + "```" + `markdown
---
layout: page                        # REQUIRED – file in _layouts/ without .html; ~ or none for no page
title: Human-readable title         # REQUIRED unless the layout is null
date: 2025-01-15                    # OPTIONAL – YYYY-MM-DD; defaults to the file mtime
tags: [tag-one, tag-two]            # OPTIONAL – list of strings; builds /tag/<tag> pages
---

Body text in Markdown. Reference other pages by reference id:
[intro], [Read this][intro], [guide#usage] or [#section] for this page.
` + "```" + `

## Directories

Each directory with pages MUST have an ` + "`" + `index.md` + "`" + `. Its front matter
declares the directory's content, either explicitly:

` + "```" + `yaml
content:
  - intro                           # reference id, relative to this directory
  - /about                          # absolute reference id
  - {ref: guide, title: The guide}  # link spec with a title override
  - {url: "https://go.dev", title: Go}
` + "```" + `

or by ordering every sibling on a front-matter key:

` + "```" + `yaml
order: date                         # every sibling page MUST define this key
reverse: true                       # OPTIONAL – descending order
` + "```" + `

## Rules

1. **Reference ids** are the lowercased site path without extension:
   ` + "`" + `docs/Intro.md` + "`" + ` has id ` + "`" + `/docs/intro` + "`" + `; a directory has the id of its path.
2. **Ids are unique** case-insensitively; two sources with one id fail the build.
3. **A reference** that matches nothing fails the build when it appears in a content
   list and is only a warning inside Markdown text.
4. **External links** shared by many pages are declared once in ` + "`" + `_site.yml` + "`" + `:
   ` + "`" + `reflinks: {golang: {title: Go, url: "https://go.dev"}}` + "`" + `.
5. **Files and directories** starting with ` + "`" + `.` + "`" + ` or ` + "`" + `_` + "`" + ` are never content.
6. **Fragments** use the heading slug: lowercase, accents removed, spaces as ` + "`" + `-` + "`" + `.
`
