package render

// documentTemplate is the print document shell. Placeholders: title,
// base font size (pt), page padding (mm), page bodies.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: 'Times New Roman', Georgia, serif;
            font-size: %dpt;
            line-height: 1.45;
            background: #e5e5e5;
            color: #000;
        }
        .page {
            position: relative;
            width: 210mm;
            height: 297mm;
            margin: 0 auto 4mm auto;
            padding: 10mm %dmm 12mm %[3]dmm;
            background: #fff;
            overflow: hidden;
            display: flex;
            flex-direction: column;
        }
        .page-body { flex: 1; display: flex; min-height: 0; }
        .page-body.split .page-content { flex: 3; }
        .page-content { flex: 1; min-width: 0; }
        .rough-work-right {
            flex: 1;
            margin-left: 4mm;
            border-left: 1px dashed #000;
            padding-left: 2mm;
        }
        .rough-work-right span, .rough-work span {
            font-size: 0.8em;
            color: #555;
            text-transform: uppercase;
            letter-spacing: 0.08em;
        }
        .rough-work {
            flex-shrink: 0;
            border-top: 1px dashed #000;
            padding-top: 1mm;
        }
        .paper-title {
            text-align: center;
            font-size: 1.3em;
            font-weight: bold;
            margin-bottom: 4mm;
        }
        .letterhead {
            padding: 3mm;
            margin-bottom: 3mm;
            display: flex;
            align-items: center;
            gap: 4mm;
        }
        .letterhead-logo { height: 16mm; }
        .letterhead-zones { display: flex; flex: 1; gap: 2mm; }
        .zone { flex: 1; }
        .custom-fields {
            display: flex;
            flex-wrap: wrap;
            gap: 4mm 8mm;
            margin-bottom: 4mm;
        }
        .custom-field { display: flex; align-items: center; gap: 2mm; }
        .field-label { font-weight: bold; }
        .field-blank { display: inline-block; width: 40mm; border-bottom: 1px solid #000; }
        .field-blocks { display: inline-flex; gap: 1mm; }
        .field-blocks .block {
            display: inline-block;
            width: 6mm;
            height: 6mm;
            border: 1px solid #000;
        }
        .field-input {
            display: inline-block;
            width: 40mm;
            height: 8mm;
            border: 1px solid #000;
        }
        .checkbox {
            display: inline-block;
            width: 3.5mm;
            height: 3.5mm;
            border: 1px solid #000;
            margin: 0 1.5mm;
            vertical-align: middle;
        }
        .instructions { padding: 4mm 0; }
        .instructions h2 { font-size: 1.15em; margin-bottom: 2mm; }
        .instructions ul, .instructions ol { padding-left: 6mm; }
        .section-header {
            display: flex;
            flex-wrap: wrap;
            align-items: baseline;
            gap: 4mm;
            border-bottom: 1px solid #000;
            margin: 3mm 0 2mm 0;
            padding-bottom: 1mm;
        }
        .section-title { font-weight: bold; font-size: 1.1em; }
        .section-meta { font-size: 0.9em; color: #333; }
        .section-instructions { width: 100%%; font-style: italic; font-size: 0.9em; }
        .question-grid { display: flex; gap: 6mm; }
        .question-column { flex: 1; min-width: 0; }
        .question { margin-bottom: 5mm; break-inside: avoid; }
        .question-head { display: flex; justify-content: space-between; }
        .question-number { font-weight: bold; }
        .question-marks { font-size: 0.9em; }
        .question-body img { max-width: 100%%; }
        .option { margin: 1mm 0 1mm 5mm; }
        .answer-space { border-bottom: 1px dotted #999; }
        .set-code {
            position: absolute;
            top: 4mm;
            right: 6mm;
            font-weight: bold;
            border: 1px solid #000;
            padding: 0.5mm 2mm;
        }
        .page-number {
            position: absolute;
            bottom: 4mm;
            font-size: 0.85em;
        }
        .page-number.pos-left { left: 10mm; }
        .page-number.pos-center { left: 50%%; transform: translateX(-50%%); }
        .page-number.pos-right { right: 10mm; }
        @media print {
            body { background: #fff; }
            .page { margin: 0; page-break-after: always; }
        }
    </style>
</head>
<body>
%s
</body>
</html>`
