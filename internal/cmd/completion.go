package cmd

import (
	"fmt"
	"os"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		return c.generateBash()
	case "zsh":
		return c.generateZsh()
	case "fish":
		return c.generateFish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
}

func (c *CompletionCmd) generateBash() error {
	script := `# bash completion for parambatch

_parambatch_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="run validate inspect version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Options for run command
    if [[ ${COMP_WORDS[1]} == "run" ]]; then
        case "${prev}" in
            -d|--design)
                COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
                return 0
                ;;
            -r|--report)
                COMPREPLY=( $(compgen -f -X '!*.json' -- ${cur}) )
                return 0
                ;;
            *)
                if [[ ${cur} == -* ]]; then
                    opts="-d --design -r --report --stl -h --help"
                    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                else
                    COMPREPLY=( $(compgen -f -X '!*.@(json|json5|yaml|yml)' -- ${cur}) )
                fi
                return 0
                ;;
        esac
    fi

    # Options for validate command
    if [[ ${COMP_WORDS[1]} == "validate" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-p --print -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(json|json5|yaml|yml)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _parambatch_completions parambatch
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateZsh() error {
	script := `#compdef parambatch

_parambatch() {
    local -a commands
    commands=(
        'run:Export every model of a batch file'
        'validate:Check a batch file without exporting'
        'inspect:Show the parameters and CAM setup of a design'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a run_opts
    run_opts=(
        '(-d --design)'{-d,--design}'[Design document]:design file:_files -g "*.{yaml,yml}"'
        '(-r --report)'{-r,--report}'[Write a JSON report]:report file:_files -g "*.json"'
        '--stl[Also export STL meshes]'
        '(-h --help)'{-h,--help}'[Show help]'
        '1:batch file:_files -g "*.{json,json5,yaml,yml}"'
    )

    local -a validate_opts
    validate_opts=(
        '(-p --print)'{-p,--print}'[Print the decoded batch]'
        '(-h --help)'{-h,--help}'[Show help]'
        '1:batch file:_files -g "*.{json,json5,yaml,yml}"'
    )

    local -a inspect_opts
    inspect_opts=(
        '(-h --help)'{-h,--help}'[Show help]'
        '1:design file:_files -g "*.{yaml,yml}"'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                run)
                    _arguments $run_opts
                    ;;
                validate)
                    _arguments $validate_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_parambatch
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateFish() error {
	script := `# fish completion for parambatch

# Main commands
complete -c parambatch -f -n "__fish_use_subcommand" -a "run" -d "Export every model of a batch file"
complete -c parambatch -f -n "__fish_use_subcommand" -a "validate" -d "Check a batch file without exporting"
complete -c parambatch -f -n "__fish_use_subcommand" -a "inspect" -d "Show the parameters and CAM setup of a design"
complete -c parambatch -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c parambatch -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# run command options
complete -c parambatch -f -n "__fish_seen_subcommand_from run" -s d -l design -d "Design document" -r -a "(__fish_complete_suffix .yaml)"
complete -c parambatch -f -n "__fish_seen_subcommand_from run" -s r -l report -d "Write a JSON report" -r -a "(__fish_complete_suffix .json)"
complete -c parambatch -f -n "__fish_seen_subcommand_from run" -l stl -d "Also export STL meshes"
complete -c parambatch -f -n "__fish_seen_subcommand_from run" -s h -l help -d "Show help"
complete -c parambatch -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .json)" -d "Batch file"
complete -c parambatch -n "__fish_seen_subcommand_from run" -a "(__fish_complete_suffix .yaml)" -d "Batch file"

# validate command options
complete -c parambatch -f -n "__fish_seen_subcommand_from validate" -s p -l print -d "Print the decoded batch"
complete -c parambatch -n "__fish_seen_subcommand_from validate" -a "(__fish_complete_suffix .json)" -d "Batch file"
complete -c parambatch -n "__fish_seen_subcommand_from validate" -a "(__fish_complete_suffix .yaml)" -d "Batch file"

# inspect command options
complete -c parambatch -f -n "__fish_seen_subcommand_from inspect" -s h -l help -d "Show help"
complete -c parambatch -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .yaml)" -d "Design file"

# completion command options
complete -c parambatch -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c parambatch -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c parambatch -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c parambatch -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for parambatch.

Examples:
  # Bash
  parambatch completion bash > ~/.local/share/bash-completion/completions/parambatch

  # Zsh
  parambatch completion zsh > ~/.zsh/completion/_parambatch
  # or add to .zshrc:
  autoload -U compinit && compinit

  # Fish
  parambatch completion fish > ~/.config/fish/completions/parambatch.fish
`
}

// For testing purposes
func generateCompletionToFile(shell, filepath string) error {
	// Save current stdout
	oldStdout := os.Stdout

	// Create file
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Redirect stdout to file
	os.Stdout = file

	// Generate completion
	cmd := &CompletionCmd{Shell: shell}
	err = cmd.Run()

	// Restore stdout
	os.Stdout = oldStdout

	return err
}
