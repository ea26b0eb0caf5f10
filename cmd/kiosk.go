package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hmf-industrial/taller-kiosk/internal/admin"
	"github.com/hmf-industrial/taller-kiosk/internal/kiosk"
	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/timecalc"
)

var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Run the interactive terminal kiosk",
	Long: `Runs the time-entry flow in the terminal: pick your name, pick a
project, pick the hours. Intended for a dedicated shop-floor machine;
use "taller serve" for the browser frontend instead.`,
	RunE: runKiosk,
}

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	promptColor   = color.New(color.FgYellow)
	noticeColor   = color.New(color.FgGreen, color.Bold)
	disabledColor = color.New(color.Faint)
	errColor      = color.New(color.FgRed)
)

func runKiosk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, store, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl, err := kiosk.New(r)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		switch ctrl.View() {
		case kiosk.ViewSelectWorker:
			if done := showWorkerScreen(ctrl, scanner); done {
				return nil
			}
		case kiosk.ViewSelectProject:
			showProjectScreen(ctrl, scanner)
		case kiosk.ViewInputHours:
			showHoursScreen(ctrl, scanner)
		case kiosk.ViewAdmin:
			runAdminScreen(ctrl, scanner, r, cfg.AdminPassword)
		}
	}
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	promptColor.Print("> ")
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// showWorkerScreen is the identification screen. Returns true when the
// operator quits the kiosk.
func showWorkerScreen(ctrl *kiosk.Controller, scanner *bufio.Scanner) bool {
	headerColor.Println("\n¿QUIÉN ERES?")
	workers := ctrl.Workers()
	for i, w := range workers {
		fmt.Printf("  %2d. %s\n", i+1, w.Name)
	}
	fmt.Println("   a. administración   q. salir")

	input, ok := readLine(scanner)
	if !ok || input == "q" {
		return true
	}
	if input == "a" {
		if err := ctrl.EnterAdmin(); err != nil {
			errColor.Println(err)
		}
		return false
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(workers) {
		errColor.Println("selección no válida")
		return false
	}
	if err := ctrl.SelectWorker(workers[n-1].ID); err != nil {
		errColor.Println(err)
	}
	return false
}

func showProjectScreen(ctrl *kiosk.Controller, scanner *bufio.Scanner) {
	w := ctrl.SelectedWorker()
	if w == nil {
		return
	}
	headerColor.Printf("\n%s – ¿EN QUÉ PROYECTO?\n", w.Name)
	fmt.Printf("Horas registradas hoy: %.1f de %.1f\n", ctrl.HoursToday(), timecalc.DailyLimit)
	projects := ctrl.Projects()
	for i, p := range projects {
		fmt.Printf("  %2d. %s\n", i+1, p.Name)
	}
	fmt.Println("   b. atrás")

	input, ok := readLine(scanner)
	if !ok {
		return
	}
	if input == "b" {
		if err := ctrl.Back(); err != nil {
			errColor.Println(err)
		}
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(projects) {
		errColor.Println("selección no válida")
		return
	}
	if err := ctrl.SelectProject(projects[n-1].ID); err != nil {
		errColor.Println(err)
	}
}

func showHoursScreen(ctrl *kiosk.Controller, scanner *bufio.Scanner) {
	w, p := ctrl.SelectedWorker(), ctrl.SelectedProject()
	if w == nil || p == nil {
		return
	}
	headerColor.Printf("\n%s – %s\n", w.Name, p.Name)
	fmt.Println("¿Cuántas horas?")
	opts := ctrl.Options()
	for i, opt := range opts {
		line := fmt.Sprintf("  %2d. %.1f h", i+1, opt.Value)
		if opt.Selectable {
			fmt.Println(line)
		} else {
			disabledColor.Printf("%s (no disponible)\n", line)
		}
	}
	fmt.Println("   b. atrás")

	input, ok := readLine(scanner)
	if !ok {
		return
	}
	if input == "b" {
		if err := ctrl.Back(); err != nil {
			errColor.Println(err)
		}
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(opts) {
		errColor.Println("selección no válida")
		return
	}
	if err := ctrl.RegisterHours(opts[n-1].Value); err != nil {
		errColor.Println(err)
		return
	}
	noticeColor.Println("✓ horas registradas")
	if ctrl.NoticeShown() {
		noticeColor.Println("¡Jornada completa! Hasta mañana.")
		// Let the scheduled reset bring the kiosk back to the start.
		time.Sleep(kiosk.NoticeDuration + 50*time.Millisecond)
	}
}

// runAdminScreen is the in-terminal administration panel reached from the
// entry flow. It mirrors the browser panel: passphrase gate, then logs,
// rosters and export.
func runAdminScreen(ctrl *kiosk.Controller, scanner *bufio.Scanner, r *repo.Repository, secret string) {
	panel := admin.NewPanel(r, secret)

	headerColor.Println("\nADMINISTRACIÓN")
	fmt.Println("Contraseña:")
	input, ok := readLine(scanner)
	if !ok {
		if err := ctrl.ExitAdmin(); err != nil {
			errColor.Println(err)
		}
		return
	}
	authorized, err := panel.Authorize(input)
	if err != nil {
		errColor.Println(err)
	}
	if !authorized {
		errColor.Println("contraseña incorrecta")
		if err := ctrl.ExitAdmin(); err != nil {
			errColor.Println(err)
		}
		return
	}

	for {
		headerColor.Println("\nADMINISTRACIÓN")
		fmt.Println("  1. historial de registros")
		fmt.Println("  2. gestionar operarios")
		fmt.Println("  3. gestionar proyectos")
		fmt.Println("  4. exportar informe (xlsx)")
		fmt.Println("  5. borrar historial")
		fmt.Println("  b. volver al quiosco")

		input, ok := readLine(scanner)
		if !ok || input == "b" {
			if err := ctrl.ExitAdmin(); err != nil {
				errColor.Println(err)
			}
			return
		}
		switch input {
		case "1":
			printLogs(panel)
		case "2":
			manageWorkers(panel, scanner)
		case "3":
			manageProjects(panel, scanner)
		case "4":
			exportReport(panel)
		case "5":
			confirmReset(panel, scanner)
		default:
			errColor.Println("selección no válida")
		}
	}
}

func printLogs(panel *admin.Panel) {
	logs := panel.Logs()
	if len(logs) == 0 {
		fmt.Println("sin registros")
		return
	}
	for _, l := range logs {
		fmt.Printf("  %s  %-25s %-40s %.1f h\n",
			l.Timestamp.Local().Format("02/01/2006 15:04"), l.WorkerName, l.ProjectName, l.Hours)
	}
}

func manageWorkers(panel *admin.Panel, scanner *bufio.Scanner) {
	panel.SetTab(admin.TabWorkers)
	workers := panel.Workers()
	for i, w := range workers {
		fmt.Printf("  %2d. %s\n", i+1, w.Name)
	}
	fmt.Println("   a <nombre>   añadir")
	fmt.Println("   r <n> <nombre>  renombrar")
	fmt.Println("   d <n>        eliminar")

	input, ok := readLine(scanner)
	if !ok || input == "" {
		return
	}
	op, rest, _ := strings.Cut(input, " ")
	var err error
	switch op {
	case "a":
		err = panel.AddWorker(rest)
	case "r":
		numStr, name, _ := strings.Cut(rest, " ")
		if n, convErr := strconv.Atoi(numStr); convErr == nil && n >= 1 && n <= len(workers) {
			err = panel.RenameWorker(workers[n-1].ID, name)
		} else {
			err = fmt.Errorf("selección no válida")
		}
	case "d":
		if n, convErr := strconv.Atoi(rest); convErr == nil && n >= 1 && n <= len(workers) {
			err = panel.DeleteWorker(workers[n-1].ID)
		} else {
			err = fmt.Errorf("selección no válida")
		}
	}
	if err != nil {
		errColor.Println(err)
	} else if panel.AckShown() {
		noticeColor.Println("✓ guardado")
	}
}

func manageProjects(panel *admin.Panel, scanner *bufio.Scanner) {
	panel.SetTab(admin.TabProjects)
	projects := panel.Projects()
	for i, p := range projects {
		state := "activo"
		if !p.Active {
			state = "cerrado"
		}
		fmt.Printf("  %2d. [%s] %s\n", i+1, state, p.Name)
	}
	fmt.Println("   a <nombre>     añadir")
	fmt.Println("   r <n> <nombre>  renombrar")
	fmt.Println("   t <n>          cerrar/reabrir")
	fmt.Println("   d <n>          eliminar")

	input, ok := readLine(scanner)
	if !ok || input == "" {
		return
	}
	op, rest, _ := strings.Cut(input, " ")
	pick := func(s string) (string, bool) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(projects) {
			return "", false
		}
		return projects[n-1].ID, true
	}
	var err error
	switch op {
	case "a":
		err = panel.AddProject(rest)
	case "r":
		numStr, name, _ := strings.Cut(rest, " ")
		if id, ok := pick(numStr); ok {
			err = panel.RenameProject(id, name)
		} else {
			err = fmt.Errorf("selección no válida")
		}
	case "t":
		if id, ok := pick(rest); ok {
			err = panel.ToggleProject(id)
		} else {
			err = fmt.Errorf("selección no válida")
		}
	case "d":
		if id, ok := pick(rest); ok {
			err = panel.DeleteProject(id)
		} else {
			err = fmt.Errorf("selección no válida")
		}
	}
	if err != nil {
		errColor.Println(err)
	} else if panel.AckShown() {
		noticeColor.Println("✓ guardado")
	}
}

func exportReport(panel *admin.Panel) {
	path, err := panel.ExportFile(".")
	if err != nil {
		errColor.Println(err)
		return
	}
	noticeColor.Printf("informe escrito en %s\n", path)
}

func confirmReset(panel *admin.Panel, scanner *bufio.Scanner) {
	promptColor.Println("Esto borra TODO el historial. Escribe 'borrar' para confirmar:")
	input, ok := readLine(scanner)
	if !ok || input != "borrar" {
		fmt.Println("cancelado")
		return
	}
	if err := panel.ResetLogs(); err != nil {
		errColor.Println(err)
		return
	}
	noticeColor.Println("✓ historial borrado")
}
