/*
Package shell runs commands that no built-in handles.

The fallback is a trust boundary. Three modes are available:

  - shell: the raw line goes to SHELL_BINARY -c verbatim, so pipes,
    globbing and variable expansion all work. Anything the server's user can
    do, a client can do.
  - allowlist: the line is split into an argument vector and executed
    directly, without a shell. The program name must match one of the
    doublestar patterns in SHELL_ALLOWLIST; shell operators are rejected.
  - disabled: every fallback command fails with ErrShellDisabled.

Output is captured and returned after the process exits. SHELL_TIMEOUT
bounds a command; zero means no limit. With SHELL_PTY the command runs
under a pseudo-terminal and stderr is merged into stdout.
*/
package shell
