package handler

import "fileapi/internal/model"

// messages holds the user-facing texts of one kind. The raw kind keeps the
// "archivo" wording of its route while json and csv use "fichero".
type messages struct {
	listed      string
	created     string
	read        string
	updated     string
	deleted     string
	incomplete  string
	exists      string
	unsupported string
	// readMissing is used by read; updates and deletes use missing.
	readMissing string
	missing     string
}

var kindMessages = map[model.Kind]messages{
	model.KindRaw: {
		listed:      "Listado de ficheros",
		created:     "Guardado con éxito",
		read:        "Archivo leído con éxito",
		updated:     "Actualizado con éxito",
		deleted:     "Eliminado con éxito",
		incomplete:  "Parámetros incompletos",
		exists:      "El archivo ya existe",
		unsupported: "Contenido no soportado",
		readMissing: "Archivo no encontrado",
		missing:     "El archivo no existe",
	},
	model.KindJSON: {
		listed:      "Operación exitosa",
		created:     "Fichero guardado exitosamente",
		read:        "Operación exitosa",
		updated:     "Fichero actualizado exitosamente",
		deleted:     "Fichero eliminado exitosamente",
		incomplete:  "Parámetros incompletos",
		exists:      "El fichero ya existe",
		unsupported: "Contenido no es un JSON válido",
		readMissing: "El fichero no existe",
		missing:     "El fichero no existe",
	},
	model.KindCSV: {
		listed:      "Operación exitosa",
		created:     "Fichero guardado exitosamente",
		read:        "Fichero leído con éxito",
		updated:     "Fichero actualizado exitosamente",
		deleted:     "Fichero eliminado exitosamente",
		incomplete:  "Parámetros incompletos",
		exists:      "El fichero ya existe",
		unsupported: "Contenido no es un CSV válido",
		readMissing: "El fichero no existe",
		missing:     "El fichero no existe",
	},
}

func messagesFor(k model.Kind) messages {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return kindMessages[model.KindRaw]
}
