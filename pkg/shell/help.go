package shell

import (
	"io"
)

const helpText = `
Available commands:
  cd <path>                          Change directory to <path>
  pwd                                Print the current working directory
  ls                                 List files in the current directory
  cat <filename>                     Display contents of the specified file
  touch <filename>                   Create a new file with the specified name
  mkdir <dirname>                    Create a new directory with the specified name
  rmdir <dirname>                    Remove the specified directory
  rm <filename>                      Remove the specified file
  cp <src> <dest>                    Copy file from <src> to <dest>
  mv <src> <dest>                    Move file from <src> to <dest>
  chmod <permissions> <filename>     Change permissions of the specified file
  chown <owner> <filename>           Change ownership of the specified file to <owner>
  chown <owner> <group> <filename>   Change ownership of the specified file to <owner>:<group>
  tar -cvf <archive_name> <files>    Create a tar archive of specified files
  tar -xvf <archive_name>            Extract a tar archive
  git init                           Create an empty git repository
  git add <files...>                 Add files to the index
  git commit <message>               Record changes with the given message
  git status                         Show the working tree status
  git log                            Show commit logs
  git push                           Update the remote repository
  clear                              Clear the terminal screen
  vim [files...]                     Start the editor
  help, h                            Show this help message
  exit                               Leave the shell

Anything else is run by the system shell.
`

func (d *Dispatcher) help(w io.Writer) error {
	_, err := io.WriteString(w, helpText)
	return err
}
