/*
Package command interprets terminal input.

Dispatch trims the line and picks one of four routes:

  - empty input is rejected with "No command provided"
  - a case-insensitive "ai " prefix sends the rest to the intent translator,
    and a match is carried out by the filesystem executor
  - pwd, ls, cd, help and sysinfo run in-process
  - anything else goes to the shell fallback, untokenized

Failures of any kind, including panics in a handler, come back as
"An unexpected error occurred: <message>" in the result's error field.
*/
package command
